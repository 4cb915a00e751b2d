// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package collector

import (
	"github.com/NVIDIA/hostdiag/pkg/collector/logs"
	"github.com/NVIDIA/hostdiag/pkg/collector/security"
	"github.com/NVIDIA/hostdiag/pkg/collector/sysconfig"
	"github.com/NVIDIA/hostdiag/pkg/collector/systemd"
	"github.com/NVIDIA/hostdiag/pkg/command"
	"github.com/NVIDIA/hostdiag/pkg/config"
)

// Factory creates collectors with their dependencies.
// This interface enables dependency injection for testing.
type Factory interface {
	CreateSystemConfigCollector() Collector
	CreateLogCollector() Collector
	CreateSecurityPolicyCollector() Collector
	CreateServiceStateCollector() Collector
	CreateSystemLogCollector() Collector
}

// DefaultFactory creates collectors with production dependencies.
type DefaultFactory struct {
	Config *config.Config
	Runner command.Runner
}

// NewDefaultFactory creates a factory for cfg whose commands run through runner.
func NewDefaultFactory(cfg *config.Config, runner command.Runner) *DefaultFactory {
	return &DefaultFactory{
		Config: cfg,
		Runner: runner,
	}
}

// CreateSystemConfigCollector creates the system configuration collector.
func (f *DefaultFactory) CreateSystemConfigCollector() Collector {
	return &sysconfig.Collector{
		Runner: f.Runner,
	}
}

// CreateLogCollector creates the log file collector.
func (f *DefaultFactory) CreateLogCollector() Collector {
	return &logs.Collector{
		CollectorName: logs.NameLogFiles,
		Sources:       f.Config.LogSources(),
	}
}

// CreateSecurityPolicyCollector creates the security policy collector.
func (f *DefaultFactory) CreateSecurityPolicyCollector() Collector {
	return &security.Collector{
		Runner:   f.Runner,
		Commands: f.Config.SecurityCommands(),
	}
}

// CreateServiceStateCollector creates the systemd unit state collector.
func (f *DefaultFactory) CreateServiceStateCollector() Collector {
	return &systemd.Collector{
		Units: f.Config.SystemdUnits(),
	}
}

// CreateSystemLogCollector creates the second log pass, which reports
// missing sources.
func (f *DefaultFactory) CreateSystemLogCollector() Collector {
	return &logs.Collector{
		CollectorName: logs.NameSystemLogs,
		Sources:       f.Config.LogSources(),
		ReportMissing: true,
	}
}
