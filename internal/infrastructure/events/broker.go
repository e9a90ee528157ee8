package events

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/helpdesk/internal/infrastructure/config"
	"github.com/xiebiao/helpdesk/pkg/circuitbreaker"
	"github.com/xiebiao/helpdesk/pkg/metrics"
	"github.com/xiebiao/helpdesk/pkg/mq"
)

// publishTimeout 单次发布的超时时间
const publishTimeout = 3 * time.Second

// sender 底层消息发送(*mq.Publisher)
type sender interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
	Exchange() string
	Close() error
}

// brokerPublisher RabbitMQ发布者,经熔断器保护
// Broker持续不可用时熔断器打开,后续发布立即失败,不拖慢工单写入
type brokerPublisher struct {
	sender  sender
	breaker *circuitbreaker.CircuitBreaker
	logger  *zap.Logger
}

// New 按配置创建发布者
// 未启用时返回空发布者;启用但连接失败时返回错误
func New(cfg config.EventsConfig, logger *zap.Logger) (Publisher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Enabled {
		logger.Info("领域事件未启用")
		return NewNoopPublisher(), nil
	}

	p, err := mq.NewPublisher(cfg.URL, cfg.Exchange, cfg.ExchangeType, logger)
	if err != nil {
		return nil, err
	}
	return newBrokerPublisher(p, cfg, logger), nil
}

func newBrokerPublisher(s sender, cfg config.EventsConfig, logger *zap.Logger) *brokerPublisher {
	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}

	breaker := circuitbreaker.NewCircuitBreaker("events", circuitbreaker.Config{
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: circuitbreaker.ConsecutiveFailures(failures),
	})
	breaker.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		logger.Warn("熔断器状态变化",
			zap.String("name", name),
			zap.Stringer("from", from),
			zap.Stringer("to", to),
		)
	})

	return &brokerPublisher{sender: s, breaker: breaker, logger: logger}
}

// Publish 发布事件
// 调用方的ctx取消不应中断已提交事务的通知,这里使用独立的超时
func (p *brokerPublisher) Publish(ctx context.Context, routingKey string, event interface{}) error {
	err := p.breaker.Execute(func() error {
		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		defer cancel()
		return p.sender.Publish(pubCtx, routingKey, event)
	})

	metrics.RecordPublish(p.sender.Exchange(), routingKey, err)
	if err != nil {
		p.logger.Warn("领域事件发布失败",
			zap.String("routing_key", routingKey),
			zap.Error(err),
		)
	}
	return err
}

func (p *brokerPublisher) Close() error {
	return p.sender.Close()
}
