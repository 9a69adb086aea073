// ABOUTME: Terminal dashboard statistics and rendering
// ABOUTME: Computes CRM analytics from session state and draws an ASCII overview
package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harperreed/solocrm/dates"
	"github.com/harperreed/solocrm/models"
	"github.com/harperreed/solocrm/store"
)

// UnknownName labels interaction counts whose contact no longer exists.
const UnknownName = "Unknown"

type DashboardStats struct {
	TotalContacts       int    `json:"totalContacts"`
	TotalInteractions   int    `json:"totalInteractions"`
	InteractionsThisMon int    `json:"interactionsThisMonth"`
	AvgPerContact       string `json:"avgInteractionsPerContact"`
	FollowUpsDue        int    `json:"followUpsDue"`
	FollowUpsThisWeek   int    `json:"followUpsThisWeek"`

	ByType    []Count `json:"byType"`
	ByMonth   []Count `json:"byMonth"`
	ByCompany []Count `json:"byCompany"`

	TopContacts        []Count              `json:"topContacts"`
	RecentContacts     []models.Contact     `json:"recentContacts"`
	RecentInteractions []models.Interaction `json:"recentInteractions"`
}

// Count is one labelled bucket.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// GenerateDashboardStats derives analytics from state as seen from timezone at now.
func GenerateDashboardStats(state store.State, timezone string, now time.Time) *DashboardStats {
	stats := &DashboardStats{
		TotalContacts:      len(state.Contacts),
		TotalInteractions:  len(state.Interactions),
		AvgPerContact:      "0",
		RecentContacts:     store.RecentContacts(state, 5),
		RecentInteractions: store.RecentInteractions(state, 5),
	}
	if stats.TotalContacts > 0 {
		stats.AvgPerContact = fmt.Sprintf("%.1f", float64(stats.TotalInteractions)/float64(stats.TotalContacts))
	}

	local := now.In(dates.Location(timezone))

	byType := map[string]int{}
	byMonth := map[time.Time]int{}
	byContact := map[string]int{}
	for _, i := range state.Interactions {
		byType[string(i.Type)]++
		byContact[i.ContactID]++
		day, ok := dates.CalendarDay(i.Date)
		if !ok {
			continue
		}
		byMonth[time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)]++
		if day.Year() == local.Year() && day.Month() == local.Month() {
			stats.InteractionsThisMon++
		}
	}

	for _, mt := range models.InteractionTypes {
		if n := byType[string(mt)]; n > 0 {
			stats.ByType = append(stats.ByType, Count{Label: string(mt), Count: n})
		}
	}

	months := make([]time.Time, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })
	for _, m := range months {
		stats.ByMonth = append(stats.ByMonth, Count{Label: m.Format("Jan 2006"), Count: byMonth[m]})
	}

	byCompany := map[string]int{}
	for _, c := range state.Contacts {
		if c.Company != "" {
			byCompany[c.Company]++
		}
		if c.FollowUpDate != "" {
			if dates.IsDue(c.FollowUpDate, timezone, now) {
				stats.FollowUpsDue++
			}
			if dates.IsThisWeek(c.FollowUpDate, timezone, now) {
				stats.FollowUpsThisWeek++
			}
		}
	}
	stats.ByCompany = sortedCounts(byCompany)

	names := map[string]string{}
	for _, c := range state.Contacts {
		names[c.ID] = c.FullName()
	}
	top := map[string]int{}
	for id, n := range byContact {
		label := UnknownName
		if name, ok := names[id]; ok {
			label = name
		}
		top[label] += n
	}
	stats.TopContacts = sortedCounts(top)
	if len(stats.TopContacts) > 5 {
		stats.TopContacts = stats.TopContacts[:5]
	}

	return stats
}

// sortedCounts orders buckets by count descending, then label.
func sortedCounts(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for label, n := range m {
		out = append(out, Count{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

func RenderDashboard(stats *DashboardStats) string {
	var out strings.Builder

	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	out.WriteString("  SOLO CRM DASHBOARD\n")
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	out.WriteString("STATS\n")
	out.WriteString(fmt.Sprintf("  📇 %d contacts  💬 %d interactions  📈 %d this month\n",
		stats.TotalContacts, stats.TotalInteractions, stats.InteractionsThisMon))
	out.WriteString(fmt.Sprintf("  ⌀ %s interactions per contact\n\n", stats.AvgPerContact))

	if stats.FollowUpsDue > 0 || stats.FollowUpsThisWeek > 0 {
		out.WriteString("NEEDS ATTENTION\n")
		if stats.FollowUpsDue > 0 {
			out.WriteString(fmt.Sprintf("  ⚠️  %d follow-ups due\n", stats.FollowUpsDue))
		}
		if stats.FollowUpsThisWeek > 0 {
			out.WriteString(fmt.Sprintf("  📅 %d follow-ups this week\n", stats.FollowUpsThisWeek))
		}
		out.WriteString("\n")
	}

	renderSection(&out, "INTERACTION TYPES", stats.ByType)
	renderSection(&out, "MONTHLY INTERACTIONS", stats.ByMonth)
	if len(stats.ByCompany) > 10 {
		renderSection(&out, "COMPANIES", stats.ByCompany[:10])
	} else {
		renderSection(&out, "COMPANIES", stats.ByCompany)
	}
	renderSection(&out, "TOP CONTACTS", stats.TopContacts)

	return out.String()
}

func renderSection(out *strings.Builder, title string, counts []Count) {
	if len(counts) == 0 {
		return
	}
	out.WriteString(title + "\n")

	maxCount := 1
	for _, c := range counts {
		if c.Count > maxCount {
			maxCount = c.Count
		}
	}
	for _, c := range counts {
		// 0-10 blocks
		barLength := (c.Count * 10) / maxCount
		bar := strings.Repeat("█", barLength) + strings.Repeat("░", 10-barLength)
		out.WriteString(fmt.Sprintf("  %-20s %s  %d\n", truncate(c.Label, 20), bar, c.Count))
	}
	out.WriteString("\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
