package services

import (
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

var (
	hostCPUPercent = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "host_cpu_percent",
		Help: "Host CPU utilization percent",
	})
	hostMemPercent = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "host_memory_percent",
		Help: "Host memory utilization percent",
	})
	hostDiskPercent = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "host_disk_percent",
		Help: "Root filesystem utilization percent",
	})
)

// MetricsCollector samples host CPU, memory, and disk utilization on an
// interval and exposes them as Prometheus gauges.
type MetricsCollector struct {
	interval time.Duration
	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewMetricsCollector(interval time.Duration) *MetricsCollector {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &MetricsCollector{
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

func (c *MetricsCollector) Start() {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		c.collect()
		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopChan:
				return
			}
		}
	}()
	log.Printf("[Metrics] host collector started (interval %s)", c.interval)
}

func (c *MetricsCollector) Stop() {
	close(c.stopChan)
	c.wg.Wait()
}

func (c *MetricsCollector) collect() {
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		hostCPUPercent.Set(percents[0])
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		hostMemPercent.Set(vm.UsedPercent)
	}
	if du, err := disk.Usage("/"); err == nil {
		hostDiskPercent.Set(du.UsedPercent)
	}
}
