// Staticlint is a multichecker of the standard go/analysis passes,
// staticcheck, errcheck and the project analyzers.
//
// Staticcheck analyzers are enabled by name, or by name prefix ending
// with "*", from config.json next to the executable:
//
//	{"staticcheck": ["SA*", "S1000", "ST1005", "QF1003"]}
//
// Without the file every SA analyzer is enabled.
package main

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/KretovDmitry/goalias/pkg/rawtxn"
	"github.com/kisielk/errcheck/errcheck"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"
	"golang.org/x/tools/go/analysis/passes/appends"
	"golang.org/x/tools/go/analysis/passes/asmdecl"
	"golang.org/x/tools/go/analysis/passes/assign"
	"golang.org/x/tools/go/analysis/passes/atomic"
	"golang.org/x/tools/go/analysis/passes/atomicalign"
	"golang.org/x/tools/go/analysis/passes/bools"
	"golang.org/x/tools/go/analysis/passes/buildtag"
	"golang.org/x/tools/go/analysis/passes/cgocall"
	"golang.org/x/tools/go/analysis/passes/composite"
	"golang.org/x/tools/go/analysis/passes/copylock"
	"golang.org/x/tools/go/analysis/passes/deepequalerrors"
	"golang.org/x/tools/go/analysis/passes/defers"
	"golang.org/x/tools/go/analysis/passes/directive"
	"golang.org/x/tools/go/analysis/passes/errorsas"
	"golang.org/x/tools/go/analysis/passes/framepointer"
	"golang.org/x/tools/go/analysis/passes/httpresponse"
	"golang.org/x/tools/go/analysis/passes/ifaceassert"
	"golang.org/x/tools/go/analysis/passes/loopclosure"
	"golang.org/x/tools/go/analysis/passes/lostcancel"
	"golang.org/x/tools/go/analysis/passes/nilfunc"
	"golang.org/x/tools/go/analysis/passes/nilness"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/shadow"
	"golang.org/x/tools/go/analysis/passes/shift"
	"golang.org/x/tools/go/analysis/passes/sigchanyzer"
	"golang.org/x/tools/go/analysis/passes/slog"
	"golang.org/x/tools/go/analysis/passes/sortslice"
	"golang.org/x/tools/go/analysis/passes/stdmethods"
	"golang.org/x/tools/go/analysis/passes/stdversion"
	"golang.org/x/tools/go/analysis/passes/stringintconv"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"golang.org/x/tools/go/analysis/passes/testinggoroutine"
	"golang.org/x/tools/go/analysis/passes/tests"
	"golang.org/x/tools/go/analysis/passes/timeformat"
	"golang.org/x/tools/go/analysis/passes/unmarshal"
	"golang.org/x/tools/go/analysis/passes/unreachable"
	"golang.org/x/tools/go/analysis/passes/unsafeptr"
	"golang.org/x/tools/go/analysis/passes/unusedresult"
	"golang.org/x/tools/go/analysis/passes/unusedwrite"
	"honnef.co/go/tools/analysis/lint"
	"honnef.co/go/tools/quickfix"
	"honnef.co/go/tools/simple"
	"honnef.co/go/tools/staticcheck"
	"honnef.co/go/tools/stylecheck"
)

// Config is the name of the configuration file.
const Config = `config.json`

// ConfigData describes configuration file structure.
type ConfigData struct {
	Staticcheck []string `json:"staticcheck"`
}

// defaultConfig is used when there is no configuration file.
var defaultConfig = ConfigData{Staticcheck: []string{"SA*"}}

func main() {
	// Get the path name for the executable that started the current process.
	appfile, err := os.Executable()
	if err != nil {
		panic(err)
	}

	cfg, err := readConfig(filepath.Join(filepath.Dir(appfile), Config))
	if err != nil {
		panic(err)
	}

	checks := []*analysis.Analyzer{
		/* x/tools/go/anaisys package analizers */

		// detects if there is only one variable in append.
		appends.Analyzer,
		// reports mismatches between assembly files and Go declarations.
		asmdecl.Analyzer,
		// detects useless assignments.
		assign.Analyzer,
		// checks for common mistakes using the sync/atomic package.
		atomic.Analyzer,
		// checks for non-64-bit-aligned arguments to sync/atomic functions.
		atomicalign.Analyzer,
		// detects common mistakes involving boolean operators.
		bools.Analyzer,
		// checks build tags.
		buildtag.Analyzer,
		// detects some violations of the cgo pointer passing rules.
		cgocall.Analyzer,
		// checks for unkeyed composite literals.
		composite.Analyzer,
		// checks for locks erroneously passed by value.
		copylock.Analyzer,
		// checks for the use of reflect.DeepEqual with error values.
		deepequalerrors.Analyzer,
		// checks for common mistakes in defer statements.
		defers.Analyzer,
		// checks known Go toolchain directives.
		directive.Analyzer,
		// checks that the second argument to errors.As
		// is a pointer to a type implementing error.
		errorsas.Analyzer,
		// reports assembly code that clobbers
		// the frame pointer before saving it.
		framepointer.Analyzer,
		// checks for mistakes using HTTP responses.
		httpresponse.Analyzer,
		// reports impossible interface-interface type assertions.
		ifaceassert.Analyzer,
		// checks for references to enclosing loop variables
		// from within nested functions.
		loopclosure.Analyzer,
		// checks for failure to call a context cancellation function.
		lostcancel.Analyzer,
		// checks for useless comparisons against nil.
		nilfunc.Analyzer,
		// inspects the control-flow graph of an SSA
		// (requires buildssa analyzer) function and reports errors
		// such as nil pointer dereferences and
		// degenerate nil pointer comparisons.
		nilness.Analyzer,
		// checks consistency of Printf format strings and arguments.
		printf.Analyzer,
		// checks for shadowed variables.
		shadow.Analyzer,
		// checks for shifts that exceed the width of an integer.
		shift.Analyzer,
		// detects misuse of unbuffered signal as argument to signal.Notify.
		sigchanyzer.Analyzer,
		// checks for mismatched key-value pairs in log/slog calls.
		slog.Analyzer,
		// checks for calls to sort.Slice that do not use a slice type
		// as first argument.
		sortslice.Analyzer,
		// checks for misspellings in the signatures of methods
		// similar to well-known interfaces.
		stdmethods.Analyzer,
		// reports uses of standard library symbols that are "too new"
		// for the Go version in force in the referring file.
		stdversion.Analyzer,
		// reports type conversions from integers to strings.
		stringintconv.Analyzer,
		// checks struct field tags are well formed.
		structtag.Analyzer,
		// reports calls to Fatal from a test goroutine.
		testinggoroutine.Analyzer,
		// checks for common mistaken usages of tests and examples.
		tests.Analyzer,
		// checks for the use of time.Format
		// or time.Parse calls with a bad format.
		timeformat.Analyzer,
		// checks for passing non-pointer or non-interface types
		// to unmarshal and decode functions.
		unmarshal.Analyzer,
		// checks for unreachable code.
		unreachable.Analyzer,
		// checks for invalid conversions of uintptr to unsafe.Pointer.
		unsafeptr.Analyzer,
		// checks for unused results of calls to certain pure functions.
		unusedresult.Analyzer,
		// checks for unused writes to the elements of a struct or array object.
		unusedwrite.Analyzer,

		/* Custom checkers. */

		// reports bbolt transactions opened outside the storage package.
		rawtxn.Analyzer,

		/* External checkers. */

		// checks that you checked errors.
		errcheck.Analyzer,
	}

	enabled := cfg.matcher()

	// Add staticcheck, simple, stylecheck and quickfix analyzers
	// specified in the configuration file.
	for _, set := range [][]*lint.Analyzer{
		staticcheck.Analyzers,
		simple.Analyzers,
		stylecheck.Analyzers,
		quickfix.Analyzers,
	} {
		for _, v := range set {
			if enabled(v.Analyzer.Name) {
				checks = append(checks, v.Analyzer)
			}
		}
	}

	multichecker.Main(checks...)
}

// readConfig reads the configuration file at path.
// A missing file gives defaultConfig.
func readConfig(path string) (ConfigData, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return defaultConfig, nil
	}
	if err != nil {
		return ConfigData{}, err
	}

	var cfg ConfigData
	if err = json.Unmarshal(data, &cfg); err != nil {
		return ConfigData{}, err
	}
	return cfg, nil
}

// matcher reports whether the named check is enabled.
func (c ConfigData) matcher() func(name string) bool {
	exact := make(map[string]bool, len(c.Staticcheck))
	var prefixes []string
	for _, v := range c.Staticcheck {
		if p, ok := strings.CutSuffix(v, "*"); ok {
			prefixes = append(prefixes, p)
			continue
		}
		exact[v] = true
	}

	return func(name string) bool {
		if exact[name] {
			return true
		}
		for _, p := range prefixes {
			if strings.HasPrefix(name, p) {
				return true
			}
		}
		return false
	}
}
