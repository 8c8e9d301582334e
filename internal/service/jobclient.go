package service

import (
	"time"

	"botdock/internal/jobs"

	"github.com/hibiken/asynq"
)

// JobClient interface for scheduling background jobs
type JobClient interface {
	ScheduleBotStartComplete(botID string, delay time.Duration) error
	ScheduleBotRestartComplete(botID string, delay time.Duration) error
	ScheduleActivityPurge() error
}

// AsynqJobClient implements JobClient using asynq
type AsynqJobClient struct {
	client *asynq.Client
}

func NewAsynqJobClient(client *asynq.Client) *AsynqJobClient {
	return &AsynqJobClient{client: client}
}

func (c *AsynqJobClient) ScheduleBotStartComplete(botID string, delay time.Duration) error {
	return jobs.ScheduleBotStartComplete(c.client, botID, delay)
}

func (c *AsynqJobClient) ScheduleBotRestartComplete(botID string, delay time.Duration) error {
	return jobs.ScheduleBotRestartComplete(c.client, botID, delay)
}

func (c *AsynqJobClient) ScheduleActivityPurge() error {
	return jobs.ScheduleActivityPurge(c.client)
}
