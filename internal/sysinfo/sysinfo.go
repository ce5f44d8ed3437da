// Package sysinfo gathers a host health snapshot for the status command.
package sysinfo

import (
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// Info is one health snapshot. Fields for probes that failed are zero
// and the failures are listed in Errors; collection never fails whole.
type Info struct {
	UptimeSeconds  uint64
	MemTotalBytes  uint64
	MemAvailBytes  uint64
	MemUsedPercent float64
	CPUPercent     float64
	Errors         []string
}

// Collect probes the host. The CPU sample is non-blocking (utilization
// since the previous call).
func Collect() Info {
	var info Info

	uptime, err := host.Uptime()
	if err != nil {
		info.Errors = append(info.Errors, "uptime: "+err.Error())
	} else {
		info.UptimeSeconds = uptime
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		info.Errors = append(info.Errors, "memory: "+err.Error())
	} else {
		info.MemTotalBytes = vm.Total
		info.MemAvailBytes = vm.Available
		info.MemUsedPercent = vm.UsedPercent
	}

	percents, err := cpu.Percent(0, false)
	switch {
	case err != nil:
		info.Errors = append(info.Errors, "cpu: "+err.Error())
	case len(percents) > 0:
		info.CPUPercent = percents[0]
	}

	return info
}

// Map renders the snapshot for a DoCommand response.
func (i Info) Map() map[string]any {
	m := map[string]any{
		"uptime_seconds":   i.UptimeSeconds,
		"mem_total_bytes":  i.MemTotalBytes,
		"mem_avail_bytes":  i.MemAvailBytes,
		"mem_used_percent": i.MemUsedPercent,
		"cpu_percent":      i.CPUPercent,
	}
	if len(i.Errors) > 0 {
		errs := make([]any, 0, len(i.Errors))
		for _, e := range i.Errors {
			errs = append(errs, e)
		}
		m["errors"] = errs
	}
	return m
}
