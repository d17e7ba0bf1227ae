package synth

import (
	"slices"
	"strconv"
	"strings"

	"github.com/bobmcallan/anvil/internal/models"
)

// maxDryRunTools caps the read-only tools exercised by the verify script.
const maxDryRunTools = 5

const verifyBody = `func main() {
	live := flag.Bool("live", false, "also call read-only tools against the upstream API")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := run(ctx, *live); err != nil {
		fmt.Fprintf(os.Stderr, "✗ %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, live bool) error {
	c, err := client.NewStreamableHttpClient(serverURL)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	defer c.Close()

	if err := c.Start(ctx); err != nil {
		return fmt.Errorf("start client: %w", err)
	}
	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "verify", Version: "0.1.0"}
	if _, err := c.Initialize(ctx, initReq); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	listed, err := c.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return fmt.Errorf("list tools: %w", err)
	}

	names := make([]string, 0, len(listed.Tools))
	for _, t := range listed.Tools {
		names = append(names, t.Name)
	}
	slices.Sort(names)
	if !slices.Equal(names, expectedTools) {
		return fmt.Errorf("tool mismatch: %v != %v", names, expectedTools)
	}
	fmt.Printf("✓ All %d tools registered\n", len(names))

	for _, t := range listed.Tools {
		if t.Name == "" {
			return fmt.Errorf("tool missing name")
		}
		if t.Description == "" {
			return fmt.Errorf("tool %s missing description", t.Name)
		}
		fmt.Printf("✓ %s: schema OK\n", t.Name)
	}

	if !live {
		fmt.Println("Skipping read-only dry run; pass -live to call the upstream API.")
		return nil
	}
	for _, d := range dryRuns {
		req := mcp.CallToolRequest{}
		req.Params.Name = d.name
		req.Params.Arguments = d.args
		res, err := c.CallTool(ctx, req)
		if err != nil {
			fmt.Printf("✗ %s: %v\n", d.name, err)
			continue
		}
		fmt.Printf("✓ %s: %s\n", d.name, firstText(res))
	}
	return nil
}

func firstText(res *mcp.CallToolResult) string {
	for _, c := range res.Content {
		if text, ok := c.(mcp.TextContent); ok {
			if len(text.Text) > 100 {
				return text.Text[:100]
			}
			return text.Text
		}
	}
	return "(no text content)"
}
`

// DryRunArgs synthesizes arguments for a best-effort call: required integers
// get 1, required booleans get true and every other required field "test".
func DryRunArgs(td *models.ToolDefinition) map[string]any {
	args := map[string]any{}
	for _, p := range td.Params {
		if !p.Required {
			continue
		}
		switch p.Type {
		case models.TypeInteger:
			args[p.Name] = 1
		case models.TypeBoolean:
			args[p.Name] = true
		case models.TypeString, models.TypeNumber, models.TypeArray, models.TypeObject:
			args[p.Name] = "test"
		default:
			args[p.Name] = "test"
		}
	}
	return args
}

// DryRunTools returns the first read-only tools in list order.
func DryRunTools(tools []*models.ToolDefinition) []*models.ToolDefinition {
	var out []*models.ToolDefinition
	for _, td := range tools {
		if td.Safety == models.SafetyRead {
			out = append(out, td)
			if len(out) == maxDryRunTools {
				break
			}
		}
	}
	return out
}

// renderVerify emits the verification script.
func renderVerify(spec *models.APISpec, tools []*models.ToolDefinition) string {
	names := models.ToolNames(tools)
	slices.Sort(names)

	var s source
	s.line(generatedHeader)
	s.blank()
	s.line("// Command verify checks a running MCP server for %s.", commentText(spec.Title))
	s.line("package main")
	s.blank()
	s.line("import (")
	for _, imp := range []string{"context", "flag", "fmt", "os", "slices", "time"} {
		s.line("\t%q", imp)
	}
	s.blank()
	s.line("\t%q", mcpGoModule+"/client")
	s.line("\t%q", mcpGoModule+"/mcp")
	s.line(")")
	s.blank()
	s.line("const serverURL = %s", strconv.Quote(verifyURL))
	s.blank()
	if len(names) == 0 {
		s.line("var expectedTools = []string{}")
	} else {
		s.line("var expectedTools = []string{")
		for _, n := range names {
			s.line("\t%s,", strconv.Quote(n))
		}
		s.line("}")
	}
	s.blank()
	s.line("type dryRun struct {")
	s.line("\tname string")
	s.line("\targs map[string]any")
	s.line("}")
	s.blank()
	reads := DryRunTools(tools)
	if len(reads) == 0 {
		s.line("var dryRuns = []dryRun{}")
	} else {
		s.line("var dryRuns = []dryRun{")
		for _, td := range reads {
			s.line("\t{name: %s, args: %s},", strconv.Quote(td.Name), argsLiteral(td))
		}
		s.line("}")
	}
	s.blank()
	s.raw(verifyBody)
	return s.String()
}

// argsLiteral renders DryRunArgs in parameter order.
func argsLiteral(td *models.ToolDefinition) string {
	args := DryRunArgs(td)
	var parts []string
	for _, p := range td.Params {
		v, ok := args[p.Name]
		if !ok {
			continue
		}
		parts = append(parts, strconv.Quote(p.Name)+": "+goLiteral(v))
		delete(args, p.Name)
	}
	return "map[string]any{" + strings.Join(parts, ", ") + "}"
}
