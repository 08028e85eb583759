// Package rawtxn defines an Analyzer that reports bbolt transactions
// opened outside the storage package.
//
// All alias table access goes through storage.Store, which tracks open
// transactions so Close can drain them. A transaction begun directly on
// *bbolt.DB bypasses that bookkeeping.
package rawtxn

import (
	"go/ast"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

const boltPath = "go.etcd.io/bbolt"

// storagePkgSuffix identifies the package allowed to open transactions.
const storagePkgSuffix = "internal/storage"

// txnMethods are the methods of *bbolt.DB that open a transaction.
var txnMethods = map[string]bool{
	"Begin":  true,
	"Update": true,
	"View":   true,
	"Batch":  true,
}

var Analyzer = &analysis.Analyzer{
	Name:     "rawtxn",
	Doc:      "reports bbolt transactions opened outside the storage package",
	Run:      run,
	Requires: []*analysis.Analyzer{inspect.Analyzer},
}

func run(pass *analysis.Pass) (interface{}, error) {
	if strings.HasSuffix(pass.Pkg.Path(), storagePkgSuffix) {
		return nil, nil
	}

	inspect := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.CallExpr)(nil),
	}

	inspect.Preorder(nodeFilter, func(n ast.Node) {
		call := n.(*ast.CallExpr)
		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok {
			return
		}
		if isBoltTxn(pass.TypesInfo.Uses[sel.Sel]) {
			pass.Reportf(sel.Pos(), "bbolt transaction opened outside %s: use storage.Store", storagePkgSuffix)
		}
	})

	return nil, nil
}

// isBoltTxn reports whether obj is a transaction method of bbolt.DB.
func isBoltTxn(obj types.Object) bool {
	fn, ok := obj.(*types.Func)
	if !ok || !txnMethods[fn.Name()] {
		return false
	}

	sig, ok := fn.Type().(*types.Signature)
	if !ok || sig.Recv() == nil {
		return false
	}

	recv := sig.Recv().Type()
	if ptr, ok := recv.(*types.Pointer); ok {
		recv = ptr.Elem()
	}
	named, ok := recv.(*types.Named)
	if !ok {
		return false
	}

	o := named.Obj()
	return o.Pkg() != nil && o.Pkg().Path() == boltPath && o.Name() == "DB"
}
