package synth

import (
	"strconv"
	"strings"

	"github.com/bobmcallan/anvil/internal/models"
)

const (
	requestTimeoutLiteral = "30 * time.Second"
	listenAddr            = ":8000"
	verifyURL             = "http://127.0.0.1:8000/mcp"
	manifestVersion       = "0.1.0"
	mcpGoModule           = "github.com/mark3labs/mcp-go"
	mcpGoVersion          = "v0.43.2"
	generatedHeader       = "// Code generated by anvil. DO NOT EDIT."
	noEndpointText        = "No endpoint configured"
)

const serverHelpers = `func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(text)},
	}
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(message)},
		IsError: true,
	}
}

// arg returns the named argument, or fallback when it is absent or null.
func arg(args map[string]any, name string, fallback any) any {
	if v, ok := args[name]; ok && v != nil {
		return v
	}
	return fallback
}

// missingArgs reports required arguments that are absent or null.
func missingArgs(args map[string]any, names ...string) string {
	var missing []string
	for _, name := range names {
		if args[name] == nil {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return ""
	}
	return "missing required arguments: " + strings.Join(missing, ", ")
}

func pathValue(v any) string {
	if v == nil {
		return ""
	}
	return url.PathEscape(fmt.Sprint(v))
}

// jsonValue decodes a JSON literal default.
func jsonValue(literal string) any {
	var v any
	if err := json.Unmarshal([]byte(literal), &v); err != nil {
		return nil
	}
	return v
}

// callAPI sends one request to the upstream API and wraps the outcome as a tool result.
func callAPI(ctx context.Context, method, path string, query, body map[string]any) (*mcp.CallToolResult, error) {
	text, err := doRequest(ctx, method, path, query, body)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return textResult(text), nil
}

// doRequest fails on a non-success status, pretty-prints JSON responses and
// falls back to the raw body text.
func doRequest(ctx context.Context, method, path string, query, body map[string]any) (string, error) {
	target := baseURL + path
	if len(query) > 0 {
		values := url.Values{}
		for k, v := range query {
			addQuery(values, k, v)
		}
		target += "?" + values.Encode()
	}

	var reader io.Reader
	if len(body) > 0 {
		data, err := json.Marshal(body)
		if err != nil {
			return "", fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	setHeaders(req.Header)

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%s %s: HTTP %d: %s", method, path, resp.StatusCode, bytes.TrimSpace(data))
	}

	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return string(data), nil
	}
	pretty, err := json.MarshalIndent(decoded, "", "  ")
	if err != nil {
		return string(data), nil
	}
	return string(pretty), nil
}

func addQuery(values url.Values, key string, v any) {
	switch x := v.(type) {
	case []any:
		for _, item := range x {
			values.Add(key, fmt.Sprint(item))
		}
	default:
		values.Set(key, fmt.Sprint(x))
	}
}
`

const serveFunc = `// serve starts the streamable HTTP transport on listenAddr.
func serve() error {
	httpServer := server.NewStreamableHTTPServer(newServer())
	fmt.Fprintf(os.Stderr, "%s listening on %s (endpoint /mcp)\n", serverName, listenAddr)
	return httpServer.Start(listenAddr)
}
`

// renderServer emits the primary server source.
func renderServer(spec *models.APISpec, tools []*models.ToolDefinition, plans []*CallPlan, name, prefix string, auth Auth) string {
	var s source
	s.line(generatedHeader)
	s.blank()
	s.line("// MCP server for %s.", commentText(spec.Title))
	s.line("//")
	s.line("// API version: %s", commentText(spec.Version))
	s.line("// Base URL: %s", commentText(spec.BaseURL))
	s.line("package main")
	s.blank()
	s.line("import (")
	for _, imp := range []string{"bytes", "context", "encoding/json", "fmt", "io", "net/http", "net/url", "os", "strings", "time"} {
		s.line("\t%q", imp)
	}
	s.blank()
	s.line("\t%q", mcpGoModule+"/mcp")
	s.line("\t%q", mcpGoModule+"/server")
	s.line(")")
	s.blank()
	s.line("const (")
	s.line("\tserverName       = %s", strconv.Quote(name))
	s.line("\tserverVersion    = %s", strconv.Quote(manifestVersion))
	s.line("\tlistenAddr       = %s", strconv.Quote(listenAddr))
	s.line("\trequestTimeout   = %s", requestTimeoutLiteral)
	s.line("\tmaxResponseBytes = 10 << 20")
	s.line(")")
	s.blank()
	s.line("// Configuration")
	s.line("var (")
	s.line("\tbaseURL = envOr(%s, %s)", strconv.Quote(prefix+"_BASE_URL"), strconv.Quote(spec.BaseURL))
	s.line("\tapiKey  = envOr(%s, \"\")", strconv.Quote(prefix+"_API_KEY"))
	s.line(")")
	s.blank()
	s.line("var httpClient = &http.Client{Timeout: requestTimeout}")
	s.blank()
	s.line("// setHeaders sets content negotiation and credential headers.")
	s.line("func setHeaders(h http.Header) {")
	s.line("\th.Set(\"Content-Type\", \"application/json\")")
	s.line("\th.Set(\"Accept\", \"application/json\")")
	s.line("\tif apiKey != \"\" {")
	if auth.Scheme != "" {
		s.line("\t\th.Set(%s, %s+apiKey)", strconv.Quote(auth.Header), strconv.Quote(auth.Scheme+" "))
	} else {
		s.line("\t\th.Set(%s, apiKey)", strconv.Quote(auth.Header))
	}
	s.line("\t}")
	s.line("}")
	s.blank()
	s.raw(serverHelpers)

	for _, plan := range plans {
		s.blank()
		writeHandler(&s, plan)
	}

	s.blank()
	s.line("func newServer() *server.MCPServer {")
	s.line("\ts := server.NewMCPServer(serverName, serverVersion, server.WithToolCapabilities(true))")
	for i, td := range tools {
		s.line("\ts.AddTool(mcp.NewTool(%s,", strconv.Quote(td.Name))
		s.line("\t\tmcp.WithDescription(%s),", strconv.Quote(td.Description))
		for _, a := range annotationSources(td.Safety) {
			s.line("\t\t%s,", a)
		}
		for _, p := range td.Params {
			s.line("\t\t%s,", propertyOptionSource(p))
		}
		s.line("\t), %s)", plans[i].Handler)
	}
	s.line("\treturn s")
	s.line("}")
	s.blank()
	s.raw(serveFunc)
	return s.String()
}

// writeHandler emits one tool handler. Only the first endpoint is called.
func writeHandler(s *source, plan *CallPlan) {
	if !plan.HasEndpoint {
		s.line("// %s has no upstream endpoint.", plan.Handler)
		s.line("func %s(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {", plan.Handler)
		s.line("\treturn textResult(%s), nil", strconv.Quote(noEndpointText))
		s.line("}")
		return
	}

	s.line("// %s calls %s %s.", plan.Handler, plan.Method, commentText(plan.Path))
	if len(plan.Alternates) > 0 {
		s.line("// Also covers %s; only the first endpoint is called.", commentText(strings.Join(plan.Alternates, ", ")))
	}
	reqName := "_"
	if plan.UsesArgs() {
		reqName = "req"
	}
	s.line("func %s(ctx context.Context, %s mcp.CallToolRequest) (*mcp.CallToolResult, error) {", plan.Handler, reqName)
	if plan.UsesArgs() {
		s.line("\targs := req.GetArguments()")
	}

	if required := plan.Required(); len(required) > 0 {
		names := make([]string, len(required))
		for i, f := range required {
			names[i] = strconv.Quote(f.Param.Name)
		}
		s.line("\tif missing := missingArgs(args, %s); missing != \"\" {", strings.Join(names, ", "))
		s.line("\t\treturn errorResult(missing), nil")
		s.line("\t}")
	}
	for _, f := range plan.Fields {
		if f.Param.Required {
			s.line("\t%s := args[%s]", f.Ident, strconv.Quote(f.Param.Name))
		} else {
			s.line("\t%s := arg(args, %s, %s)", f.Ident, strconv.Quote(f.Param.Name), goLiteral(f.Param.Default))
		}
	}
	if len(plan.Fields) > 0 {
		s.blank()
	}

	s.line("\treqPath := %s", pathExpr(plan.Segments))

	queryArg := writeMap(s, "query", plan.ByTarget(TargetQuery))
	bodyArg := writeMap(s, "body", plan.ByTarget(TargetBody))
	s.line("\treturn callAPI(ctx, %s, reqPath, %s, %s)", strconv.Quote(string(plan.Method)), queryArg, bodyArg)
	s.line("}")
}

// pathExpr renders the request path as a string concatenation.
func pathExpr(segs []Segment) string {
	parts := make([]string, 0, len(segs))
	for _, seg := range segs {
		switch {
		case seg.Placeholder == "":
			parts = append(parts, strconv.Quote(seg.Literal))
		case seg.Field != nil:
			parts = append(parts, "pathValue("+seg.Field.Ident+")")
		default:
			parts = append(parts, "pathValue(args["+strconv.Quote(seg.Placeholder)+"])")
		}
	}
	return strings.Join(parts, " + ")
}

// writeMap emits a map of the given fields and returns the expression to
// pass to callAPI.
func writeMap(s *source, name string, fields []*Field) string {
	if len(fields) == 0 {
		return "nil"
	}
	s.line("\t%s := map[string]any{}", name)
	for _, f := range fields {
		key := strconv.Quote(f.Param.Name)
		if f.Param.Required {
			s.line("\t%s[%s] = %s", name, key, f.Ident)
			continue
		}
		s.line("\tif %s != nil {", f.Ident)
		s.line("\t\t%s[%s] = %s", name, key, f.Ident)
		s.line("\t}")
	}
	return name
}
