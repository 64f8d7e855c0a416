package models

import "time"

type RunSummary struct {
	RunID           string    `json:"runId"`
	Strategy        string    `json:"strategy"`
	Total           int       `json:"total"`
	FraudulentCount int       `json:"fraudulentCount"`
	RemoteCount     int       `json:"remoteCount"`
	FallbackCount   int       `json:"fallbackCount"`
	MockMode        bool      `json:"mockMode"`
	RequestedAt     time.Time `json:"requestedAt"`
}

type Summary struct {
	TotalRuns         int `json:"totalRuns"`
	TotalTransactions int `json:"totalTransactions"`
	TotalFraudulent   int `json:"totalFraudulent"`
}

type RunsSummary struct {
	RemoteSummary Summary `json:"remote"`
	MockSummary   Summary `json:"mock"`
}
