package health

import (
	"context"
	"encoding/json"
	"runtime"
	"strconv"
	"time"

	"ngo-connect-backend/internal/middleware"

	"github.com/dustin/go-humanize"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CollectResult is the body of GET /health/json.
type CollectResult struct {
	Status       string               `json:"status"`
	Runtime      RuntimeInfo          `json:"runtime"`
	Traffic      TrafficInfo          `json:"traffic"`
	Dependencies map[string]DepStatus `json:"dependencies"`
}

type RuntimeInfo struct {
	UptimeSeconds int64      `json:"uptimeSeconds"`
	Uptime        string     `json:"uptime"`
	Memory        MemoryInfo `json:"memory"`
	Goroutines    int        `json:"goroutines"`
	Platform      string     `json:"platform"`
	GoVersion     string     `json:"goVersion"`
}

type MemoryInfo struct {
	Alloc    string `json:"alloc"`
	HeapUsed string `json:"heapUsed"`
	Sys      string `json:"sys"`
}

type TrafficInfo struct {
	TotalRequests   int         `json:"totalRequests"`
	SuccessCount    int         `json:"successCount"`
	FailedCount     int         `json:"failedCount"`
	SuccessRate     string      `json:"successRate"`
	AvgResponseTime interface{} `json:"avgResponseTime"`
	LastRequest     interface{} `json:"lastRequest"`
}

type DepStatus struct {
	Status string `json:"status"`
	PingMs *int64 `json:"pingMs"`
}

// Basic is the body of GET /main/health.
type Basic struct {
	Status    string `json:"status"`
	Database  string `json:"database,omitempty"`
	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Service reports process and dependency health. Rdb may be nil.
type Service struct {
	DB      *gorm.DB
	Rdb     *redis.Client
	Started time.Time
}

func (s *Service) pingDB(ctx context.Context) error {
	if s.DB == nil {
		return errNoDatabase
	}
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Check pings the database only.
func (s *Service) Check(ctx context.Context) (Basic, bool) {
	now := time.Now().Format(time.RFC3339)
	if err := s.pingDB(ctx); err != nil {
		return Basic{Status: "unhealthy", Error: "database unavailable", Timestamp: now}, false
	}
	return Basic{Status: "healthy", Database: "connected", Timestamp: now}, true
}

// Collect gathers dependency status, runtime stats and the request counters
// HealthMarker keeps in Redis.
func (s *Service) Collect(ctx context.Context) CollectResult {
	result := CollectResult{Dependencies: make(map[string]DepStatus)}

	dbStatus := "disconnected"
	var dbPing *int64
	if s.DB != nil {
		start := time.Now()
		if err := s.pingDB(ctx); err == nil {
			ms := time.Since(start).Milliseconds()
			dbPing, dbStatus = &ms, "connected"
		} else {
			dbStatus = "error"
		}
	}
	result.Dependencies["database"] = DepStatus{Status: dbStatus, PingMs: dbPing}

	redisStatus := "disconnected"
	var redisPing *int64
	traffic := TrafficInfo{AvgResponseTime: 0, SuccessRate: "100"}
	started := s.Started
	if s.Rdb != nil {
		start := time.Now()
		if err := s.Rdb.Ping(ctx).Err(); err == nil {
			ms := time.Since(start).Milliseconds()
			redisPing, redisStatus = &ms, "connected"
			traffic, started = s.traffic(ctx, started)
		} else {
			redisStatus = "error"
		}
	}
	result.Dependencies["redis"] = DepStatus{Status: redisStatus, PingMs: redisPing}
	result.Traffic = traffic

	if started.IsZero() {
		started = time.Now()
	}
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	result.Runtime = RuntimeInfo{
		UptimeSeconds: int64(time.Since(started).Seconds()),
		Uptime:        humanize.Time(started),
		Memory: MemoryInfo{
			Alloc:    humanize.Bytes(m.Alloc),
			HeapUsed: humanize.Bytes(m.HeapInuse),
			Sys:      humanize.Bytes(m.Sys),
		},
		Goroutines: runtime.NumGoroutine(),
		Platform:   runtime.GOOS + " (" + runtime.GOARCH + ")",
		GoVersion:  runtime.Version(),
	}

	result.Status = "issue"
	if dbStatus == "connected" && (s.Rdb == nil || redisStatus == "connected") {
		result.Status = "ok"
	}
	return result
}

func (s *Service) traffic(ctx context.Context, started time.Time) (TrafficInfo, time.Time) {
	stats := TrafficInfo{AvgResponseTime: 0, SuccessRate: "100"}
	vals, _ := s.Rdb.MGet(ctx,
		middleware.KeyReqTotal, middleware.KeyReqErrors, middleware.KeyResTime,
		middleware.KeyResCount, middleware.KeyStartTime, middleware.KeyLastReq,
	).Result()
	str := func(i int) string {
		if i < len(vals) {
			if v, ok := vals[i].(string); ok {
				return v
			}
		}
		return ""
	}

	if ms, err := strconv.ParseInt(str(4), 10, 64); err == nil {
		started = time.UnixMilli(ms)
	} else {
		if started.IsZero() {
			started = time.Now()
		}
		s.Rdb.SetNX(ctx, middleware.KeyStartTime, started.UnixMilli(), 0)
	}

	stats.TotalRequests, _ = strconv.Atoi(str(0))
	stats.FailedCount, _ = strconv.Atoi(str(1))
	stats.SuccessCount = stats.TotalRequests - stats.FailedCount
	if stats.TotalRequests > 0 {
		stats.SuccessRate = strconv.FormatFloat(float64(stats.SuccessCount)/float64(stats.TotalRequests)*100, 'f', 1, 64)
	}
	timeSum, _ := strconv.ParseFloat(str(2), 64)
	if count, _ := strconv.Atoi(str(3)); count > 0 {
		stats.AvgResponseTime = strconv.FormatFloat(timeSum/float64(count), 'f', 2, 64)
	}
	if last := str(5); last != "" {
		var lastReq map[string]interface{}
		if json.Unmarshal([]byte(last), &lastReq) == nil {
			stats.LastRequest = lastReq
		}
	}
	return stats, started
}

// Reset clears the request counters and restarts the uptime clock.
func (s *Service) Reset(ctx context.Context) error {
	if s.Rdb == nil {
		return nil
	}
	keys := []string{middleware.KeyReqTotal, middleware.KeyReqErrors, middleware.KeyResTime,
		middleware.KeyResCount, middleware.KeyStartTime, middleware.KeyLastReq}
	if err := s.Rdb.Del(ctx, keys...).Err(); err != nil {
		return err
	}
	return s.Rdb.Set(ctx, middleware.KeyStartTime, strconv.FormatInt(time.Now().UnixMilli(), 10), 0).Err()
}
