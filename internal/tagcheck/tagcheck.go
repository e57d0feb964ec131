package tagcheck

import (
	"errors"
	"fmt"
	"go/types"
	"reflect"

	"golang.org/x/tools/go/packages"

	"graph-cloner/internal/diagnostic"
	"graph-cloner/policy"
)

// LoadMode is what the checker needs from go/packages.
const LoadMode = packages.NeedName | packages.NeedTypes

// Checker finds copy tags that the engine would reject or ignore.
type Checker struct {
	// Key is the struct tag key, policy.DefaultTagKey if empty.
	Key string
}

// Load loads the packages matching patterns, relative to dir, and checks every
// struct type declared at package level.
func (c Checker) Load(dir string, patterns ...string) (*diagnostic.Diagnostics, error) {
	cfg := &packages.Config{Mode: LoadMode, Dir: dir}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	var errs []error
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	})

	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %w", errors.Join(errs...))
	}

	res := &diagnostic.Diagnostics{}
	for _, pkg := range pkgs {
		c.Check(pkg.Types, res)
	}

	return res, nil
}

// Check adds the findings for pkg to res.
func (c Checker) Check(pkg *types.Package, res *diagnostic.Diagnostics) {
	scope := pkg.Scope()
	for _, name := range scope.Names() {
		tn, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || tn.IsAlias() {
			continue
		}

		if st, ok := tn.Type().Underlying().(*types.Struct); ok {
			c.checkStruct(pkg.Name()+"."+name, st, res)
		}
	}
}

func (c Checker) key() string {
	if c.Key == "" {
		return policy.DefaultTagKey
	}

	return c.Key
}

func (c Checker) checkStruct(owner string, st *types.Struct, res *diagnostic.Diagnostics) {
	markers := 0

	for i := range st.NumFields() {
		field := st.Field(i)

		if inner, ok := field.Type().(*types.Struct); ok {
			c.checkStruct(owner+"."+field.Name(), inner, res)
		}

		tag, ok := reflect.StructTag(st.Tag(i)).Lookup(c.key())
		if !ok {
			continue
		}

		action, inherit, err := policy.ParseTag(tag)
		if err != nil {
			res.AddError("bad_tag", err.Error(), owner, field.Name())
			continue
		}

		if field.Name() != "_" {
			if inherit {
				res.AddWarning("inherit_on_field", "inherit only applies to blank marker fields", owner, field.Name())
			}

			continue
		}

		markers++
		if markers > 1 {
			res.AddError("duplicate_marker", "only the first tagged blank field is read", owner, "_")
		}

		if action == policy.Skip {
			res.AddWarning("skip_type", "skip on a type acts as null", owner, "_")
		}
	}
}
