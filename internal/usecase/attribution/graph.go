package attribution

import (
	"github.com/LavaJover/shvark-ftd-service/internal/domain"
	"github.com/shopspring/decimal"
)

// ShaveEdge is one percentage shave of an owner's FTDs.
type ShaveEdge struct {
	ShaveID        string
	BeneficiaryID  string
	IntermediaryID string
	Percent        decimal.Decimal
}

func (e ShaveEdge) HasIntermediary() bool {
	return e.IntermediaryID != ""
}

// ShaveGraph maps a tracking-code owner to its shave edges, in relation insertion order.
type ShaveGraph map[string][]ShaveEdge

// BuildShaveGraph keeps percentage relations with a positive value.
// Fixed-per-FTD relations are billed afterwards and never steer attribution.
func BuildShaveGraph(relations []*domain.ShaveRelation) ShaveGraph {
	graph := make(ShaveGraph)
	for _, relation := range relations {
		if relation == nil {
			continue
		}
		switch commission := relation.Commission.(type) {
		case domain.PercentageCommission:
			if !commission.Percent.IsPositive() {
				continue
			}
			graph[relation.TargetID] = append(graph[relation.TargetID], ShaveEdge{
				ShaveID:        relation.ID,
				BeneficiaryID:  relation.BeneficiaryID,
				IntermediaryID: relation.IntermediaryID,
				Percent:        commission.Percent,
			})
		case domain.FixedPerFtdCommission:
			continue
		}
	}
	return graph
}

func (g ShaveGraph) EdgesFor(ownerID string) []ShaveEdge {
	return g[ownerID]
}

// TotalPercent sums the shave percentages of the edges.
func TotalPercent(edges []ShaveEdge) decimal.Decimal {
	total := decimal.Zero
	for _, edge := range edges {
		total = total.Add(edge.Percent)
	}
	return total
}
