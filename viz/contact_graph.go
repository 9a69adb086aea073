// ABOUTME: Graphviz rendering of the contact network
// ABOUTME: Contacts link to their companies; edge weight is the interaction count
package viz

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/harperreed/solocrm/store"
)

// GraphGenerator renders state snapshots as graphviz documents.
type GraphGenerator struct {
	format graphviz.Format
}

// NewGraphGenerator renders DOT by default.
func NewGraphGenerator() *GraphGenerator {
	return &GraphGenerator{format: graphviz.XDOT}
}

// WithFormat switches the output format (dot, svg, png).
func (g *GraphGenerator) WithFormat(format string) *GraphGenerator {
	g.format = graphviz.Format(format)
	return g
}

// GenerateContactGraph draws every contact, the companies they work at and
// a node for interactions whose contact is gone.
func (g *GraphGenerator) GenerateContactGraph(ctx context.Context, state store.State) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create graphviz instance: %w", err)
	}
	defer gv.Close()

	graph, err := gv.Graph()
	if err != nil {
		return nil, fmt.Errorf("failed to create graph: %w", err)
	}
	defer graph.Close()

	graph.SetLabel("Contact Network")
	graph.SetRankDir(cgraph.LRRank)

	counts := map[string]int{}
	for _, i := range state.Interactions {
		counts[i.ContactID]++
	}

	companyNodes := make(map[string]*cgraph.Node)
	contactNodes := make(map[string]*cgraph.Node)
	for _, contact := range state.Contacts {
		node, err := graph.CreateNodeByName("contact_" + contact.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to create contact node: %w", err)
		}
		label := contact.FullName()
		if contact.Email != "" {
			label += "\n" + contact.Email
		}
		node.SetLabel(fmt.Sprintf("%s\n(%d interactions)", label, counts[contact.ID]))
		node.SetShape("ellipse")
		node.SetStyle("filled")
		node.SetFillColor("lightgreen")
		contactNodes[contact.ID] = node

		if contact.Company == "" {
			continue
		}
		companyNode, ok := companyNodes[contact.Company]
		if !ok {
			companyNode, err = graph.CreateNodeByName("company_" + contact.Company)
			if err != nil {
				return nil, fmt.Errorf("failed to create company node: %w", err)
			}
			companyNode.SetLabel(fmt.Sprintf("%s\n(Company)", contact.Company))
			companyNode.SetShape("box")
			companyNode.SetStyle("filled")
			companyNode.SetFillColor("lightblue")
			companyNodes[contact.Company] = companyNode
		}
		edge, err := graph.CreateEdgeByName("works_at_"+contact.ID, node, companyNode)
		if err != nil {
			return nil, fmt.Errorf("failed to create edge: %w", err)
		}
		edge.SetLabel("works at")
		edge.SetStyle("dashed")
	}

	orphans := 0
	for id, n := range counts {
		if _, ok := contactNodes[id]; !ok {
			orphans += n
		}
	}
	if orphans > 0 {
		node, err := graph.CreateNodeByName("unknown_contact")
		if err != nil {
			return nil, fmt.Errorf("failed to create unknown node: %w", err)
		}
		node.SetLabel(fmt.Sprintf("%s\n(%d interactions)", store.UnknownContact, orphans))
		node.SetShape("diamond")
		node.SetStyle("dotted")
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, g.format, &buf); err != nil {
		return nil, fmt.Errorf("failed to render graph: %w", err)
	}
	return buf.Bytes(), nil
}
