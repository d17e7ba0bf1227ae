package safety

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/bobmcallan/anvil/internal/common"
	"github.com/bobmcallan/anvil/internal/models"
)

var words = []string{
	"get", "list", "delete", "remove", "create", "update", "set", "user",
	"order", "cancel", "import", "report", "password", "token", "id",
}

func toolGen() *rapid.Generator[*models.ToolDefinition] {
	return rapid.Custom(func(rt *rapid.T) *models.ToolDefinition {
		td := &models.ToolDefinition{
			Name:        rapid.StringMatching(`[a-z]{1,8}(_[a-z]{1,8})?`).Draw(rt, "name"),
			Description: "",
			Safety:      rapid.SampledFrom(models.SafetyLevels).Draw(rt, "tier"),
		}
		for _, w := range rapid.SliceOfN(rapid.SampledFrom(words), 0, 4).Draw(rt, "words") {
			td.Description += w + " "
		}
		for _, p := range rapid.SliceOfN(rapid.SampledFrom(words), 0, 3).Draw(rt, "params") {
			td.Params = append(td.Params, &models.ToolParam{Name: p, Description: "query parameter"})
		}
		return td
	})
}

func TestProperty_Classify_NeverLowersTier(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		td := toolGen().Draw(rt, "tool")
		before := td.Safety.Rank()

		_, err := Classify(common.NewSilentLogger(), []*models.ToolDefinition{td}, DefaultPolicy())
		require.NoError(rt, err)

		require.GreaterOrEqual(rt, td.Safety.Rank(), before)
	})
}

func TestProperty_Classify_Idempotent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tools := rapid.SliceOfN(toolGen(), 0, 8).Draw(rt, "tools")
		policy := DefaultPolicy()
		policy.BlockDestructive = rapid.Bool().Draw(rt, "block")
		policy.MaxTools = rapid.IntRange(0, 5).Draw(rt, "max")

		first, err := Classify(common.NewSilentLogger(), tools, policy)
		require.NoError(rt, err)

		type snap struct {
			name, desc string
			tier       models.SafetyLevel
			params     []string
		}
		var before []snap
		for _, td := range first.Accepted {
			s := snap{name: td.Name, desc: td.Description, tier: td.Safety}
			for _, p := range td.Params {
				s.params = append(s.params, p.Description)
			}
			before = append(before, s)
		}

		second, err := Classify(common.NewSilentLogger(), first.Accepted, policy)
		require.NoError(rt, err)
		require.Len(rt, second.Accepted, len(first.Accepted))

		for i, td := range second.Accepted {
			require.Equal(rt, before[i].name, td.Name)
			require.Equal(rt, before[i].desc, td.Description)
			require.Equal(rt, before[i].tier, td.Safety)
			for j, p := range td.Params {
				require.Equal(rt, before[i].params[j], p.Description)
			}
		}
	})
}
