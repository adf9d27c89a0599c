package mcpserver

import (
	"context"
	"path/filepath"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"github.com/xmazu/envy/internal/config"
	"github.com/xmazu/envy/internal/envfile"
	"github.com/xmazu/envy/internal/formatter"
	"github.com/xmazu/envy/internal/sorter"
	"github.com/xmazu/envy/internal/storage"
	"github.com/xmazu/envy/internal/validator"
)

type validateArgs struct {
	Path          string `json:"path" jsonschema:"path to the .env file"`
	CheckRequired *bool  `json:"check_required,omitempty" jsonschema:"require every key of the example file next to path (default: project config)"`
	ErrorMode     *bool  `json:"error_mode,omitempty" jsonschema:"report valid=false when an error-level issue is found (default: project config)"`
}

type formatArgs struct {
	Path  string `json:"path" jsonschema:"path to the .env file"`
	Dupes string `json:"dupes,omitempty" jsonschema:"duplicate policy: keep-first or keep-last (default: project config)"`
	Write bool   `json:"write,omitempty" jsonschema:"write the result back to path, keeping a .bak copy"`
}

type sortArgs struct {
	Path   string `json:"path" jsonschema:"path to the .env file"`
	Method string `json:"method,omitempty" jsonschema:"sort method: alpha or group (default: project config)"`
	Write  bool   `json:"write,omitempty" jsonschema:"write the result back to path, keeping a .bak copy"`
}

// NewServer returns an MCP server exposing validate, format and sort as tools.
func NewServer(version string) *mcpsdk.Server {
	server := mcpsdk.NewServer(&mcpsdk.Implementation{
		Name:    "envy",
		Version: version,
	}, nil)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "validate_env",
		Description: "Validate a .env file. Reports invalid lines, duplicate keys, empty keys or values, unquoted whitespace, undefined ${VAR} references and, with check_required, keys missing compared to .env.example. Returns issues with severity plus valid and passed flags. Never modifies the file.",
	}, validateTool)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "format_env",
		Description: "Normalize a .env file: strip export prefixes, trim whitespace around keys and values, drop duplicate keys and invalid lines. Returns the formatted text, counters and a per-line list of changes. Only writes when write is true.",
	}, formatTool)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "sort_env",
		Description: "Sort the entries of a .env file alphabetically or grouped by key prefix (DB_, API_...). Comments and invalid lines are dropped. Returns the sorted text. Only writes when write is true.",
	}, sortTool)

	return server
}

// Run serves the tools over stdio until ctx is done or the client disconnects.
func Run(ctx context.Context, version string) error {
	return NewServer(version).Run(ctx, &mcpsdk.StdioTransport{})
}

func validateTool(ctx context.Context, req *mcpsdk.CallToolRequest, args validateArgs) (*mcpsdk.CallToolResult, any, error) {
	lines, cfg, err := load(args.Path)
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}

	opts := validator.Options{ErrorMode: cfg.ErrorMode()}
	if args.ErrorMode != nil {
		opts.ErrorMode = *args.ErrorMode
	}
	checkRequired := cfg.CheckRequired()
	if args.CheckRequired != nil {
		checkRequired = *args.CheckRequired
	}
	if checkRequired {
		opts.Required, err = validator.RequiredKeys(validator.ExamplePath(args.Path, cfg.Validate.Example))
		if err != nil {
			return errorResult(err.Error()), nil, nil
		}
	}

	report := validator.Validate(lines, opts)
	issues := report.Issues
	if issues == nil {
		issues = []validator.Issue{}
	}
	return successResult(map[string]any{
		"path":     args.Path,
		"valid":    report.Valid,
		"passed":   report.Passed(),
		"errors":   report.Count(validator.SeverityError),
		"warnings": report.Count(validator.SeverityWarning),
		"issues":   issues,
	}), nil, nil
}

func formatTool(ctx context.Context, req *mcpsdk.CallToolRequest, args formatArgs) (*mcpsdk.CallToolResult, any, error) {
	lines, cfg, err := load(args.Path)
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}

	policy := args.Dupes
	if policy == "" {
		policy = cfg.Format.Dupes
	}
	dupes, err := formatter.ParseDupePolicy(policy)
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}

	res := formatter.Format(lines, formatter.Options{Dupes: dupes, DryRun: true})
	out := map[string]any{
		"path":        args.Path,
		"text":        res.Text,
		"reformatted": res.Reformatted,
		"duplicates":  res.Duplicates,
		"invalid":     res.Invalid,
		"changes":     res.Changes,
		"written":     false,
	}
	if args.Write {
		backup, err := write(args.Path, res.Text)
		if err != nil {
			return errorResult(err.Error()), nil, nil
		}
		out["written"] = true
		out["backup"] = backup
	}
	return successResult(out), nil, nil
}

func sortTool(ctx context.Context, req *mcpsdk.CallToolRequest, args sortArgs) (*mcpsdk.CallToolResult, any, error) {
	lines, cfg, err := load(args.Path)
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}

	name := args.Method
	if name == "" {
		name = cfg.Sort.Method
	}
	method, err := sorter.ParseMethod(name)
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}

	text := sorter.Sort(lines, method)
	out := map[string]any{
		"path":    args.Path,
		"method":  string(method),
		"text":    text,
		"written": false,
	}
	if args.Write {
		backup, err := write(args.Path, text)
		if err != nil {
			return errorResult(err.Error()), nil, nil
		}
		out["written"] = true
		out["backup"] = backup
	}
	return successResult(out), nil, nil
}

func load(path string) ([]envfile.Line, *config.Config, error) {
	if path == "" {
		return nil, nil, errPathRequired
	}
	cfg, err := config.Load(filepath.Dir(path))
	if err != nil {
		return nil, nil, err
	}
	lines, err := envfile.ParseFile(path)
	if err != nil {
		return nil, nil, err
	}
	return lines, cfg, nil
}

func write(path, text string) (string, error) {
	backup, err := storage.WriteAtomic(path, []byte(text))
	if err != nil {
		return "", err
	}
	log.Debug().Str("file", path).Str("backup", backup).Msg("file rewritten")
	return backup, nil
}
