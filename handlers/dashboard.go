// ABOUTME: Dashboard and settings MCP handlers
// ABOUTME: Provides get_dashboard, get_contact_graph and update_setting tools for agents
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/solocrm/crm"
	"github.com/harperreed/solocrm/models"
	"github.com/harperreed/solocrm/viz"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type DashboardHandlers struct {
	session *crm.Session
	now     func() time.Time
}

func NewDashboardHandlers(session *crm.Session) *DashboardHandlers {
	return &DashboardHandlers{session: session, now: time.Now}
}

type GetDashboardInput struct {
	Text bool `json:"text,omitempty" jsonschema:"Also return the rendered ASCII dashboard"`
}

type GetDashboardOutput struct {
	TotalContacts       int         `json:"total_contacts"`
	TotalInteractions   int         `json:"total_interactions"`
	InteractionsThisMon int         `json:"interactions_this_month"`
	AvgPerContact       string      `json:"avg_interactions_per_contact"`
	FollowUpsDue        int         `json:"follow_ups_due"`
	FollowUpsThisWeek   int         `json:"follow_ups_this_week"`
	ByType              []viz.Count `json:"by_type"`
	ByMonth             []viz.Count `json:"by_month"`
	ByCompany           []viz.Count `json:"by_company"`
	TopContacts         []viz.Count `json:"top_contacts"`
	Rendered            string      `json:"rendered,omitempty"`
}

func (h *DashboardHandlers) GetDashboard(_ context.Context, request *mcp.CallToolRequest, input GetDashboardInput) (*mcp.CallToolResult, GetDashboardOutput, error) {
	stats := viz.GenerateDashboardStats(h.session.State(), h.session.Timezone(), h.now())

	out := GetDashboardOutput{
		TotalContacts:       stats.TotalContacts,
		TotalInteractions:   stats.TotalInteractions,
		InteractionsThisMon: stats.InteractionsThisMon,
		AvgPerContact:       stats.AvgPerContact,
		FollowUpsDue:        stats.FollowUpsDue,
		FollowUpsThisWeek:   stats.FollowUpsThisWeek,
		ByType:              nonNil(stats.ByType),
		ByMonth:             nonNil(stats.ByMonth),
		ByCompany:           nonNil(stats.ByCompany),
		TopContacts:         nonNil(stats.TopContacts),
	}
	if input.Text {
		out.Rendered = viz.RenderDashboard(stats)
	}
	return nil, out, nil
}

type GetContactGraphInput struct{}

type GetContactGraphOutput struct {
	DOTSource string `json:"dot_source"`
}

func (h *DashboardHandlers) GetContactGraph(ctx context.Context, request *mcp.CallToolRequest, input GetContactGraphInput) (*mcp.CallToolResult, GetContactGraphOutput, error) {
	dot, err := viz.NewGraphGenerator().GenerateContactGraph(ctx, h.session.State())
	if err != nil {
		return nil, GetContactGraphOutput{}, fmt.Errorf("failed to generate graph: %w", err)
	}
	return nil, GetContactGraphOutput{DOTSource: string(dot)}, nil
}

type UpdateSettingInput struct {
	Key   string `json:"key" jsonschema:"timezone, theme or notifications"`
	Value string `json:"value" jsonschema:"New value"`
}

func (h *DashboardHandlers) UpdateSetting(ctx context.Context, request *mcp.CallToolRequest, input UpdateSettingInput) (*mcp.CallToolResult, models.UserSettings, error) {
	var err error
	if input.Key == crm.SettingTimezone {
		err = h.session.UpdateTimezone(ctx, input.Value)
	} else {
		err = h.session.UpdateSetting(ctx, input.Key, input.Value)
	}
	if err != nil {
		return nil, h.session.Settings(), fmt.Errorf("failed to update setting: %w", err)
	}
	return nil, h.session.Settings(), nil
}

func nonNil(counts []viz.Count) []viz.Count {
	if counts == nil {
		return []viz.Count{}
	}
	return counts
}
