package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/mjaros/focusflow/internal/store"
)

// Deterministic defaults used whenever the model call fails or returns a
// value outside the declared enums.
const (
	fallbackPriority = store.PriorityB
	fallbackEnergy   = store.EnergyM
	fallbackTime     = store.Time25Min
	fallbackMinutes  = 25

	maxExecutionMinutes = 480
)

// EnhanceTask fills the metadata gaps of a partially specified task. Only
// fields absent on the request are populated in the response; provided fields
// are never overwritten. The call never fails: a transport error yields fixed
// defaults for the missing fields, an unparseable reply yields an empty
// response (the caller keeps the gaps empty).
func (c *Client) EnhanceTask(ctx context.Context, req EnhanceRequest) EnhanceResponse {
	reply, err := c.complete(ctx, enhanceSystemPrompt, enhancePrompt(req), 500)
	if err != nil {
		return enhanceFallback(req)
	}

	var resp EnhanceResponse
	if err := decodeReply(reply, &resp); err != nil {
		return EnhanceResponse{}
	}

	if resp.Priority != "" && !resp.Priority.Valid() {
		resp.Priority = fallbackPriority
	}
	if resp.EnergyLevel != "" && !resp.EnergyLevel.Valid() {
		resp.EnergyLevel = fallbackEnergy
	}
	if resp.TimeNeeded != "" && !resp.TimeNeeded.Valid() {
		resp.TimeNeeded = fallbackTime
	}
	if resp.ExecutionTime != 0 && (resp.ExecutionTime < 1 || resp.ExecutionTime > maxExecutionMinutes) {
		resp.ExecutionTime = fallbackMinutes
	}

	// The model is told to fill gaps only, but enforce it here too.
	if req.Priority != "" {
		resp.Priority = ""
	}
	if req.EnergyLevel != "" {
		resp.EnergyLevel = ""
	}
	if req.TimeNeeded != "" {
		resp.TimeNeeded = ""
	}
	if req.ExecutionTime != 0 {
		resp.ExecutionTime = 0
	}
	return resp
}

// Apply merges an enhancement into a task, filling empty fields only.
func Apply(t store.Task, resp EnhanceResponse) store.Task {
	if t.Priority == "" && resp.Priority != "" {
		t.Priority = resp.Priority
	}
	if t.EnergyLevel == "" && resp.EnergyLevel != "" {
		t.EnergyLevel = resp.EnergyLevel
	}
	if t.TimeNeeded == "" && resp.TimeNeeded != "" {
		t.TimeNeeded = resp.TimeNeeded
	}
	if t.ExecutionTime == 0 && resp.ExecutionTime != 0 {
		t.ExecutionTime = resp.ExecutionTime
	}
	return t
}

// NeedsEnhancement reports whether a task has gaps worth sending to the model.
func NeedsEnhancement(t store.Task) bool {
	return t.Priority == "" || t.EnergyLevel == "" || t.TimeNeeded == "" || t.ExecutionTime == 0
}

func enhanceFallback(req EnhanceRequest) EnhanceResponse {
	var resp EnhanceResponse
	if req.Priority == "" {
		resp.Priority = fallbackPriority
	}
	if req.EnergyLevel == "" {
		resp.EnergyLevel = fallbackEnergy
	}
	if req.TimeNeeded == "" {
		resp.TimeNeeded = fallbackTime
	}
	if req.ExecutionTime == 0 {
		resp.ExecutionTime = fallbackMinutes
	}
	return resp
}

const enhanceSystemPrompt = "You are an expert in productivity and task management for people with ADHD. You always reply with a single JSON object."

func enhancePrompt(req EnhanceRequest) string {
	var provided []string
	if req.Title != "" {
		provided = append(provided, "title: "+req.Title)
	}
	if req.EnergyLevel != "" {
		provided = append(provided, "energy_level: "+string(req.EnergyLevel))
	}
	if req.TimeNeeded != "" {
		provided = append(provided, "time_needed: "+string(req.TimeNeeded))
	}
	if req.Priority != "" {
		provided = append(provided, "priority: "+string(req.Priority))
	}
	if req.ExecutionTime != 0 {
		provided = append(provided, fmt.Sprintf("execution_time: %d", req.ExecutionTime))
	}

	var b strings.Builder
	b.WriteString("You receive a partially filled task and must fill in the missing fields.\n\n")
	b.WriteString("TASK DATA:\n")
	b.WriteString(strings.Join(provided, ", "))
	b.WriteString("\n\nFILL IN THE MISSING FIELDS:\n\n")
	b.WriteString("1. PRIORITY (if missing): one of\n")
	b.WriteString("   - \"A\": critical, urgent, blocks other tasks\n")
	b.WriteString("   - \"B\": important but can wait a few days\n")
	b.WriteString("   - \"C\": useful to do\n")
	b.WriteString("   - \"D\": maybe someday\n\n")
	b.WriteString("2. ENERGY_LEVEL (if missing): estimate the energy required:\n")
	b.WriteString("   - \"XS\": very low energy (5 min)\n")
	b.WriteString("   - \"S\": low energy (15 min)\n")
	b.WriteString("   - \"M\": medium energy (30 min)\n")
	b.WriteString("   - \"L\": high energy (60 min)\n")
	b.WriteString("   - \"XL\": very high energy (90+ min)\n\n")
	b.WriteString("3. TIME_NEEDED (if missing): estimate the time required:\n")
	b.WriteString("   - \"1min\": very quick (1-5 min)\n")
	b.WriteString("   - \"15min\": short (5-15 min)\n")
	b.WriteString("   - \"25min\": standard (15-30 min)\n")
	b.WriteString("   - \"more\": long (30+ min)\n\n")
	b.WriteString("4. EXECUTION_TIME (if missing): exact minutes (5, 15, 25, 45, 60, 90)\n\n")
	b.WriteString("REPLY AS JSON:\n")
	b.WriteString("{\n  \"priority\": \"...\",\n  \"energy_level\": \"...\",\n  \"time_needed\": \"...\",\n  \"execution_time\": ...,\n  \"reasoning\": \"one short sentence\"\n}\n\n")
	b.WriteString("IMPORTANT: fill ONLY the fields that were empty. Never change fields the user already provided.")
	return b.String()
}
