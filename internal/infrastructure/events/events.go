// Package events 领域事件发布
//
// 工单和库存变动在事务提交后发布到RabbitMQ（topic Exchange，默认helpdesk.events），
// 供通知、报表等外部系统订阅。发布是尽力而为的：失败只记日志和指标，不影响接口结果。
package events

import (
	"context"
	"time"
)

// Routing keys
const (
	TicketCreated = "ticket.created"
	TicketUpdated = "ticket.updated"
	TicketDeleted = "ticket.deleted"
	StockConsumed = "stock.consumed"
	StockRestored = "stock.restored"
)

// Publisher 事件发布接口
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event interface{}) error
	Close() error
}

// TicketEvent 工单事件
type TicketEvent struct {
	TicketID   uint      `json:"ticket_id"`
	Status     bool      `json:"status"`
	Owner      string    `json:"owner,omitempty"`
	Device     string    `json:"device,omitempty"` // 设备库存编号
	OccurredAt time.Time `json:"occurred_at"`
}

// StockEvent 库存变动事件
type StockEvent struct {
	ExpenditureID uint      `json:"expenditure_id"`
	PositionID    uint      `json:"position_id"`
	Position      string    `json:"position"`
	Quantity      int       `json:"quantity"`
	TicketID      *uint     `json:"ticket_id"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// noopPublisher 未启用事件时使用
type noopPublisher struct{}

// NewNoopPublisher 创建空发布者
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, string, interface{}) error { return nil }
func (noopPublisher) Close() error                                        { return nil }
