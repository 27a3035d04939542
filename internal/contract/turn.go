// Package contract defines the request/response shapes exchanged with
// chat clients. Handlers decode into these; services fill them.
package contract

import (
	"github.com/strideworks/stride/internal/domain"
	"github.com/strideworks/stride/internal/provider"
)

// LatLon is a client-resolved geolocation.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// TurnRequest is one inbound chat message. SessionID may be empty on the
// first turn; the engine mints one.
type TurnRequest struct {
	Message   string  `json:"message"`
	SessionID string  `json:"sessionId,omitempty"`
	Location  *LatLon `json:"location,omitempty"`
}

// Chart re-exports the domain chart shape on the wire.
type Chart = domain.Chart

// WeatherPayload is the structured weather block of a response.
type WeatherPayload struct {
	TemperatureC   float64 `json:"temperatureC"`
	Condition      string  `json:"condition"`
	WindKph        float64 `json:"windKph"`
	Humidity       int     `json:"humidity"`
	Recommendation string  `json:"recommendation"`
}

// PlanWeekDetail is one week of a generated plan on the wire.
type PlanWeekDetail struct {
	Week     int      `json:"week"`
	Focus    string   `json:"focus"`
	Sessions []string `json:"sessions"`
	TotalKm  float64  `json:"totalKm,omitempty"`
}

// TrainingSummaryPayload surfaces the multi-week digest when available.
type TrainingSummaryPayload struct {
	Weeks           int     `json:"weeks"`
	RunCount        int     `json:"runCount"`
	TotalKm         float64 `json:"totalKm"`
	AvgPaceMinPerKm float64 `json:"avgPaceMinPerKm,omitempty"`
}

// TurnResponse is the engine's answer to one turn.
type TurnResponse struct {
	ResponseText         string            `json:"responseText"`
	SessionID            string            `json:"sessionId"`
	IntentType           domain.IntentType `json:"intentType"`
	RequiresExternalData bool              `json:"requiresExternalData"`
	AgentName            string            `json:"agentName"`
	Confidence           float64           `json:"confidence"`

	Charts           []Chart                 `json:"charts,omitempty"`
	Weather          *WeatherPayload         `json:"weather,omitempty"`
	PlanSummary      string                  `json:"planSummary,omitempty"`
	WeeklyDetail     []PlanWeekDetail        `json:"weeklyDetail,omitempty"`
	TrainingSummary  *TrainingSummaryPayload `json:"trainingSummary,omitempty"`
	SuggestedPrompts []string                `json:"suggestedPrompts,omitempty"`
}

// WeatherPayloadFrom maps a provider report onto the wire shape.
func WeatherPayloadFrom(r *provider.WeatherReport) *WeatherPayload {
	if r == nil {
		return nil
	}
	return &WeatherPayload{
		TemperatureC:   r.TemperatureC,
		Condition:      r.Condition,
		WindKph:        r.WindKph,
		Humidity:       r.Humidity,
		Recommendation: r.Recommendation,
	}
}

// PlanWeeksFrom maps provider plan weeks onto the wire shape.
func PlanWeeksFrom(weeks []provider.PlanWeek) []PlanWeekDetail {
	if len(weeks) == 0 {
		return nil
	}
	out := make([]PlanWeekDetail, len(weeks))
	for i, w := range weeks {
		out[i] = PlanWeekDetail{Week: w.Week, Focus: w.Focus, Sessions: w.Sessions, TotalKm: w.TotalKm}
	}
	return out
}
