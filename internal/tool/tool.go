// Package tool is the boundary between the user-facing surfaces (CLI, TUI,
// watch mode) and the pure array, URL and token functions. Every invocation
// returns a Result; errors and panics never escape a Run call.
package tool

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/CaptShanks/arrayprism/internal/convert"
	"github.com/CaptShanks/arrayprism/internal/formatter"
	"github.com/CaptShanks/arrayprism/internal/parser"
	"github.com/CaptShanks/arrayprism/internal/reconcile"
	"github.com/CaptShanks/arrayprism/internal/token"
	"github.com/CaptShanks/arrayprism/internal/urlparams"
)

// Kind identifies a tool
type Kind string

const (
	Merge   Kind = "merge"
	Diff    Kind = "diff"
	Convert Kind = "convert"
	URLs    Kind = "urls"
	JWT     Kind = "jwt"
)

// GenericError is shown when a tool fails unexpectedly
const GenericError = "An error occurred during processing"

// Info describes a tool for menus and file naming
type Info struct {
	Kind         Kind
	Title        string
	Description  string
	DownloadName string
	// TwoInputs reports whether the tool takes a left and a right array
	TwoInputs bool
}

// All lists the tools in menu order
var All = []Info{
	{Kind: Merge, Title: "Array Merger", Description: "Concatenate two arrays, optionally removing duplicates", DownloadName: "merged_array.txt", TwoInputs: true},
	{Kind: Diff, Title: "Array Diff", Description: "Values only in the first, only in the second, or in either", DownloadName: "array_diff.txt", TwoInputs: true},
	{Kind: Convert, Title: "String Converter", Description: "Turn lines of text into a JSON string array", DownloadName: convert.DefaultDownloadName},
	{Kind: URLs, Title: "URL Parameter Extractor", Description: "Collect one query parameter value per endpoint", DownloadName: "url_processed.txt"},
	{Kind: JWT, Title: "JWT Decoder", Description: "Decode a token's header and payload (no verification)", DownloadName: "jwt_decoded.txt"},
}

// Lookup returns the Info for a kind
func Lookup(kind Kind) (Info, bool) {
	for _, info := range All {
		if info.Kind == kind {
			return info, true
		}
	}
	return Info{}, false
}

// Request carries every input a tool may read. Fields a tool does not use
// are ignored.
type Request struct {
	Left   string
	Right  string
	Dedup  bool
	Mode   reconcile.Mode
	Output formatter.OutputMode
	Param  string
}

// Result is the outcome of one invocation. When Err is set, Output is empty.
type Result struct {
	Output string
	Err    string
	// Token is set by the JWT tool on success
	Token *token.Token
}

// OK reports whether the invocation succeeded
func (r Result) OK() bool { return r.Err == "" }

// Runner invokes tools and logs their failures
type Runner struct {
	logger *zap.Logger
}

// NewRunner creates a Runner. A nil logger disables logging.
func NewRunner(logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger}
}

// Run dispatches req to the tool identified by kind
func (r *Runner) Run(kind Kind, req Request) Result {
	switch kind {
	case Merge:
		return r.Merge(req.Left, req.Right, req.Dedup, req.Output)
	case Diff:
		return r.Diff(req.Left, req.Right, req.Mode, req.Output)
	case Convert:
		return r.Convert(req.Left)
	case URLs:
		return r.URLs(req.Left, req.Param)
	case JWT:
		return r.JWT(req.Left)
	}
	return Result{Err: fmt.Sprintf("unknown tool %q", kind)}
}

// Merge concatenates both arrays, removing duplicates when dedup is set
func (r *Runner) Merge(left, right string, dedup bool, out formatter.OutputMode) Result {
	mode := reconcile.ModeMerge
	if dedup {
		mode = reconcile.ModeMergeDedup
	}
	return r.guard(Merge, func() (Result, error) {
		tokens, err := reconcile.Reconcile(parser.Parse(left), parser.Parse(right), mode)
		if err != nil {
			return Result{}, err
		}
		return Result{Output: formatter.Format(tokens, out)}, nil
	})
}

// Diff computes a one-sided or symmetric difference and formats it with out
func (r *Runner) Diff(left, right string, mode reconcile.Mode, out formatter.OutputMode) Result {
	return r.guard(Diff, func() (Result, error) {
		tokens, err := reconcile.Reconcile(parser.Parse(left), parser.Parse(right), mode)
		if err != nil {
			return Result{}, err
		}
		return Result{Output: formatter.Format(tokens, out)}, nil
	})
}

// Convert turns lines into a JSON string array
func (r *Runner) Convert(text string) Result {
	return r.guard(Convert, func() (Result, error) {
		return Result{Output: convert.ToStringArray(text)}, nil
	})
}

// URLs extracts param from every distinct endpoint. Blank input yields an
// empty output; any other input without values yields "[]".
func (r *Runner) URLs(text, param string) Result {
	if param == "" {
		param = urlparams.DefaultParam
	}
	return r.guard(URLs, func() (Result, error) {
		urls := urlparams.SplitInput(text)
		if urls == nil {
			return Result{}, nil
		}
		values := urlparams.NewExtractor(r.logger).Extract(urls, param)
		return Result{Output: formatter.StringArray(values)}, nil
	})
}

// JWT decodes a token. The output is the decoded header and payload as JSON.
func (r *Runner) JWT(text string) Result {
	return r.guard(JWT, func() (Result, error) {
		tok, err := token.Decode(text)
		if err != nil || tok == nil {
			return Result{}, err
		}
		out, err := tok.JSON()
		if err != nil {
			return Result{}, err
		}
		return Result{Output: out, Token: tok}, nil
	})
}

// guard runs fn, turning errors into messages and panics into GenericError.
// Output is always cleared on failure.
func (r *Runner) guard(kind Kind, fn func() (Result, error)) (res Result) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Warn("tool panicked", zap.String("tool", string(kind)), zap.Any("panic", p))
			res = Result{Err: GenericError}
		}
	}()

	var err error
	res, err = fn()
	if err != nil {
		r.logger.Warn("tool failed", zap.String("tool", string(kind)), zap.Error(err))
		return Result{Err: err.Error()}
	}
	r.logger.Debug("tool ran", zap.String("tool", string(kind)), zap.Int("output_bytes", len(res.Output)))
	return res
}
