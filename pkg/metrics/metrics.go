// Package metrics 提供基于Prometheus的指标收集
//
// # 指标类型
//
//   - Counter（计数器）：只增不减，如HTTP请求总数、库存消耗件数
//   - Gauge（仪表盘）：可增可减，如正在处理的请求数、熔断器状态
//   - Histogram（直方图）：观测值分布，如请求耗时（服务端可算P50/P99）
//
// # 使用方式
//
//	metrics.InitMetrics()                      // 进程启动时调用一次
//	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
//	metrics.RecordStockMovement(metrics.StockConsumed, 3)
//	metrics.RecordTicketWrite("create", time.Since(start), err)
//
// 所有便捷函数在InitMetrics之前调用都是空操作，
// 因此单元测试和CLI子命令不需要初始化指标。
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 库存变动方向（stock_movements_total的direction标签）
const (
	StockConsumed = "consumed" // 消耗扣减
	StockRestored = "restored" // 删除消耗记录后归还
	StockRejected = "rejected" // 库存不足被拒绝
)

var (
	initOnce sync.Once

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数
	// 标签：method、path（路由模板，如/api/v1/tickets/:id）、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// 业务指标

	// TicketWritesTotal 工单写入总数
	// 标签：op（create/update/delete）、result（success/failure）
	TicketWritesTotal *prometheus.CounterVec

	// TicketWriteDuration 工单写入耗时（含嵌套解析和库存台账）
	TicketWriteDuration *prometheus.HistogramVec

	// StockMovementsTotal 库存变动件数
	// 标签：direction（consumed/restored/rejected）
	StockMovementsTotal *prometheus.CounterVec

	// QueryFallbacksTotal 列表查询参数非法、降级为未过滤结果的次数
	// 标签：resource（tickets/devices/positions）
	QueryFallbacksTotal *prometheus.CounterVec

	// 熔断器指标

	// CircuitBreakerState 熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 熔断器请求总数
	// 标签：name、result（success/failure/rejected）
	CircuitBreakerRequests *prometheus.CounterVec

	// 消息队列指标

	// MessagesPublishedTotal 领域事件发布总数
	// 标签：exchange、routing_key、result（success/failure）
	MessagesPublishedTotal *prometheus.CounterVec
)

// InitMetrics 初始化所有Prometheus指标
//
// 使用promauto注册到默认Registry，重复调用是安全的（只注册一次）
func InitMetrics() {
	initOnce.Do(func() {
		HTTPRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP请求总数",
			},
			[]string{"method", "path", "status"},
		)

		HTTPRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP请求耗时（秒）",
				// 桶设置：1ms、10ms、100ms、500ms、1s、5s、10s
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
			},
			[]string{"method", "path"},
		)

		HTTPRequestsInProgress = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_progress",
				Help: "正在处理的HTTP请求数",
			},
		)

		TicketWritesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "helpdesk_ticket_writes_total",
				Help: "工单写入总数",
			},
			[]string{"op", "result"},
		)

		TicketWriteDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "helpdesk_ticket_write_duration_seconds",
				Help:    "工单写入耗时（秒）",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"op"},
		)

		StockMovementsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "helpdesk_stock_movements_total",
				Help: "库存变动件数",
			},
			[]string{"direction"},
		)

		QueryFallbacksTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "helpdesk_query_fallbacks_total",
				Help: "列表查询参数非法降级次数",
			},
			[]string{"resource"},
		)

		CircuitBreakerState = promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "circuit_breaker_state",
				Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
			},
			[]string{"name"},
		)

		CircuitBreakerRequests = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "circuit_breaker_requests_total",
				Help: "熔断器请求总数",
			},
			[]string{"name", "result"},
		)

		MessagesPublishedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "messages_published_total",
				Help: "消息发布总数",
			},
			[]string{"exchange", "routing_key", "result"},
		)
	})
}

// RecordTicketWrite 记录一次工单写入
func RecordTicketWrite(op string, elapsed time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	IncCounterVec(TicketWritesTotal, map[string]string{"op": op, "result": result})
	ObserveHistogramVec(TicketWriteDuration, map[string]string{"op": op}, elapsed.Seconds())
}

// RecordStockMovement 记录库存变动件数
func RecordStockMovement(direction string, quantity int) {
	if StockMovementsTotal == nil || quantity < 0 {
		return
	}
	StockMovementsTotal.With(prometheus.Labels{"direction": direction}).Add(float64(quantity))
}

// RecordQueryFallback 记录一次列表查询降级
func RecordQueryFallback(resource string) {
	IncCounterVec(QueryFallbacksTotal, map[string]string{"resource": resource})
}

// RecordPublish 记录一次事件发布
func RecordPublish(exchange, routingKey string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	IncCounterVec(MessagesPublishedTotal, map[string]string{
		"exchange": exchange, "routing_key": routingKey, "result": result,
	})
}

// IncCounterVec 递增CounterVec（未初始化时为空操作）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	if counter == nil {
		return
	}
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	if gauge == nil {
		return
	}
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	if gauge == nil {
		return
	}
	gauge.Dec()
}

// SetGaugeVec 设置GaugeVec值（带标签）
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	if gauge == nil {
		return
	}
	gauge.With(labels).Set(value)
}

// ObserveHistogramVec 记录HistogramVec观测值（带标签）
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	if histogram == nil {
		return
	}
	histogram.With(labels).Observe(value)
}
