// ABOUTME: Visualization CLI commands
// ABOUTME: Handles the analytics dashboard and contact graph generation
package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/harperreed/solocrm/crm"
	"github.com/harperreed/solocrm/viz"
)

// AnalyticsCommand prints the dashboard, or its stats as JSON.
func AnalyticsCommand(session *crm.Session, args []string) error {
	fs := flag.NewFlagSet("analytics", flag.ContinueOnError)
	asJSON := fs.Bool("json", false, "Print stats as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	stats := viz.GenerateDashboardStats(session.State(), session.Timezone(), now())
	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	_, _ = fmt.Fprint(stdout, viz.RenderDashboard(stats))
	return nil
}

// VizGraphCommand generates the contact network graph.
func VizGraphCommand(ctx context.Context, session *crm.Session, args []string) error {
	fs := flag.NewFlagSet("viz graph", flag.ContinueOnError)
	output := fs.String("output", "", "Output file (default: stdout)")
	format := fs.String("format", "dot", "Output format: dot, svg or png")
	if err := fs.Parse(args); err != nil {
		return err
	}

	generator := viz.NewGraphGenerator().WithFormat(*format)
	data, err := generator.GenerateContactGraph(ctx, session.State())
	if err != nil {
		return err
	}

	if *output != "" {
		return os.WriteFile(*output, data, 0644)
	}

	_, _ = stdout.Write(data)
	return nil
}
