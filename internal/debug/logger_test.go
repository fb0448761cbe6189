/*
 * Copyright 2025 SREDiag Authors
 * Copyright 2023 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package debug

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type LoggerTestSuite struct {
	suite.Suite
	saved int
}

func (s *LoggerTestSuite) SetupTest() {
	s.saved = LogLevel()
}

func (s *LoggerTestSuite) TearDownTest() {
	SetLogLevel(s.saved)
}

func (s *LoggerTestSuite) TestLogColor() {
	SetLogLevel(LevelTrace)
	l := New("color", nil)

	l.Tracef("this is tracef %s", "hello world")
	l.Infof("this is infof %s", "hello world")
	l.Info("this is info")
	l.Debugf("this is debugf %s", "hello world")
	l.Warnf("this is warnf %s", "hello world")
	l.Errorf("this is errorf %s", "hello world")
	l.Error("this is error")
}

func (s *LoggerTestSuite) TestLevelFilter() {
	var out bytes.Buffer
	l := New("filter", &out)

	SetLogLevel(LevelWarn)
	l.Debugf("hidden %d", 1)
	l.Infof("hidden %d", 2)
	s.Equal(0, out.Len())

	l.Warnf("shown %d", 3)
	s.Contains(out.String(), "shown 3")
	s.Contains(out.String(), "Warn")
	s.Contains(out.String(), "filter")
	s.Contains(out.String(), "logger_test.go:")

	out.Reset()
	SetLogLevel(LevelNoPrint)
	l.Errorf("hidden %d", 4)
	s.Equal(0, out.Len())
}

func (s *LoggerTestSuite) TestSetLogLevelIgnoresInvalid() {
	SetLogLevel(LevelInfo)
	SetLogLevel(LevelNoPrint + 1)
	s.Equal(LevelInfo, LogLevel())
	SetLogLevel(-1)
	s.Equal(LevelInfo, LogLevel())
}

func (s *LoggerTestSuite) TestOneLinePerCall() {
	var out bytes.Buffer
	l := New("lines", &out)
	SetLogLevel(LevelTrace)
	l.Tracef("a")
	l.Info("b")
	s.Equal(2, strings.Count(out.String(), "\n"))
}

func TestLoggerTestSuite(t *testing.T) {
	suite.Run(t, new(LoggerTestSuite))
}
