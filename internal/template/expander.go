package template

import (
	"bytes"
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/dockerish/internal/config"
	"github.com/specialistvlad/dockerish/internal/ctxlog"
	"github.com/specialistvlad/dockerish/internal/fsutil"
	"github.com/specialistvlad/dockerish/internal/target"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// TemplateDirVar is the variable holding the template directory.
const TemplateDirVar = "template_dir"

// Expander turns raw template text into a parsed target.
type Expander struct {
	// TemplateDir is exposed to templates and roots the file functions.
	TemplateDir string
	Reader      fsutil.Reader
	ListAddrs   AddrLister
}

// NewExpander returns an Expander for templates living in templateDir.
func NewExpander(templateDir string) *Expander {
	return &Expander{
		TemplateDir: templateDir,
		Reader:      fsutil.NewOSReader(templateDir),
		ListAddrs:   InterfaceIPv4s,
	}
}

// Expand renders raw against cfg, substitutes the host IP and parses the
// result.
func (e *Expander) Expand(ctx context.Context, raw []byte, filename string, cfg config.Config) (*target.Target, error) {
	logger := ctxlog.FromContext(ctx)

	rendered, err := e.Render(raw, filename, cfg)
	if err != nil {
		return nil, err
	}
	rendered = SubstituteHostIP(ctx, rendered, e.ListAddrs)
	logger.Debug("Template rendered.", "file", filename, "text", rendered)

	tgt, err := target.Parse([]byte(rendered))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	logger.Debug("Target parsed.", "target", tgt)
	return tgt, nil
}

// Render evaluates raw as an HCL template against cfg.
func (e *Expander) Render(raw []byte, filename string, cfg config.Config) (string, error) {
	// %{HOSTIP} would otherwise be read as a template directive.
	src := bytes.ReplaceAll(raw, []byte(HostIPMarker), []byte("%"+HostIPMarker))

	expr, diags := hclsyntax.ParseTemplate(src, filename, hcl.InitialPos)
	if diags.HasErrors() {
		return "", fmt.Errorf("%w: %w", ErrTemplateRender, diags)
	}

	evalCtx, err := e.evalContext(cfg)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTemplateRender, err)
	}

	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return "", fmt.Errorf("%w: %w", ErrTemplateRender, diags)
	}
	if val.IsNull() || !val.IsWhollyKnown() {
		return "", fmt.Errorf("%w: %s rendered to no value", ErrTemplateRender, filename)
	}
	val, err = convert.Convert(val, cty.String)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTemplateRender, err)
	}
	return val.AsString(), nil
}

func (e *Expander) evalContext(cfg config.Config) (*hcl.EvalContext, error) {
	vars, err := configVariables(cfg)
	if err != nil {
		return nil, err
	}
	vars[TemplateDirVar] = cty.StringVal(e.TemplateDir)

	reader := e.Reader
	if reader == nil {
		reader = fsutil.NewOSReader(e.TemplateDir)
	}
	return &hcl.EvalContext{
		Variables: vars,
		Functions: functions(reader),
	}, nil
}
