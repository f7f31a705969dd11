package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Reports, per service method, whether curriculum writes go through an
// aggregate or straight at a repo. With -strict it exits 1 on any direct
// repo write so CI can gate on it.

type repoField struct {
	Name     string `json:"name"`
	RepoType string `json:"repo_type"`
}

type methodStats struct {
	StructName           string   `json:"struct_name"`
	Method               string   `json:"method"`
	File                 string   `json:"file"`
	Line                 int      `json:"line"`
	RepoWriteCalls       int      `json:"repo_write_calls"`
	RepoFieldsWritten    []string `json:"repo_fields_written"`
	RepoReadCalls        int      `json:"repo_read_calls"`
	AggregateCalls       int      `json:"aggregate_calls"`
	AggregateMethodsSeen []string `json:"aggregate_methods_seen"`
}

type auditReport struct {
	ServiceRepoWriteCallsites int           `json:"service_repo_write_callsites"`
	AggregateCallsites        int           `json:"aggregate_callsites"`
	Methods                   []methodStats `json:"methods"`
	ResidualWriteMethods      []methodStats `json:"residual_write_methods"`
	RepoFieldInventory        []repoField   `json:"repo_field_inventory"`
}

type structFields struct {
	RepoFields      map[string]repoField
	AggregateFields map[string]string
}

var repoWriteMethods = map[string]bool{
	"Create":                    true,
	"InsertIfAbsent":            true,
	"UpdateFields":              true,
	"SetPosition":               true,
	"LockByID":                  true,
	"FullDeleteByIDs":           true,
	"FullDeleteByCourseIDs":     true,
	"FullDeleteBySectionIDs":    true,
	"FullDeleteByEnrollmentIDs": true,
}

var aggregateMethods = map[string]bool{
	"Reconcile":      true,
	"CreateCourse":   true,
	"DeleteCourse":   true,
	"Enroll":         true,
	"Unenroll":       true,
	"MarkCompleted":  true,
	"MarkIncomplete": true,
}

func main() {
	strict := flag.Bool("strict", false, "exit 1 when a service writes through a repo directly")
	flag.Parse()
	root := "."
	if flag.NArg() > 0 {
		root = flag.Arg(0)
	}

	servicesDir := filepath.Join(root, "internal", "services")
	fset := token.NewFileSet()

	pkgs, err := parser.ParseDir(fset, servicesDir, func(fi os.FileInfo) bool {
		name := fi.Name()
		return strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go")
	}, 0)
	if err != nil {
		exitf("parse dir: %v", err)
	}
	pkg, ok := pkgs["services"]
	if !ok {
		exitf("services package not found in %s", servicesDir)
	}

	fieldsByStruct := map[string]structFields{}
	for _, f := range pkg.Files {
		collectStructFields(f, fieldsByStruct)
	}

	var methods []methodStats
	for filePath, f := range pkg.Files {
		rel, err := filepath.Rel(root, filePath)
		if err != nil {
			rel = filePath
		}
		collectMethodStats(fset, f, rel, fieldsByStruct, &methods)
	}

	report := buildReport(fieldsByStruct, methods)
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		exitf("marshal report: %v", err)
	}
	fmt.Println(string(out))

	if *strict && report.ServiceRepoWriteCallsites > 0 {
		os.Exit(1)
	}
}

func collectStructFields(file *ast.File, out map[string]structFields) {
	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			st, ok := ts.Type.(*ast.StructType)
			if !ok || st.Fields == nil {
				continue
			}
			sf := structFields{
				RepoFields:      map[string]repoField{},
				AggregateFields: map[string]string{},
			}
			for _, field := range st.Fields.List {
				if len(field.Names) == 0 {
					continue
				}
				sel, ok := field.Type.(*ast.SelectorExpr)
				if !ok {
					continue
				}
				pkgIdent, ok := sel.X.(*ast.Ident)
				if !ok {
					continue
				}
				typeName := sel.Sel.Name
				for _, name := range field.Names {
					switch {
					case pkgIdent.Name == "curriculum" && strings.HasSuffix(typeName, "Repo"):
						sf.RepoFields[name.Name] = repoField{Name: name.Name, RepoType: typeName}
					case pkgIdent.Name == "domainagg" && strings.HasSuffix(typeName, "Aggregate"):
						sf.AggregateFields[name.Name] = typeName
					}
				}
			}
			if len(sf.RepoFields) > 0 || len(sf.AggregateFields) > 0 {
				out[ts.Name.Name] = sf
			}
		}
	}
}

func collectMethodStats(
	fset *token.FileSet,
	file *ast.File,
	relFile string,
	fieldsByStruct map[string]structFields,
	out *[]methodStats,
) {
	for _, decl := range file.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok || fd.Recv == nil || fd.Body == nil || len(fd.Recv.List) == 0 {
			continue
		}
		recvName, recvType := recvInfo(fd.Recv.List[0])
		if recvType == "" || recvName == "" {
			continue
		}
		sf, ok := fieldsByStruct[recvType]
		if !ok {
			continue
		}

		stats := methodStats{
			StructName: recvType,
			Method:     fd.Name.Name,
			File:       filepath.ToSlash(relFile),
			Line:       fset.Position(fd.Pos()).Line,
		}
		written := map[string]bool{}
		aggSeen := map[string]bool{}

		ast.Inspect(fd.Body, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			fnSel, ok := call.Fun.(*ast.SelectorExpr)
			if !ok {
				return true
			}
			rcvSel, ok := fnSel.X.(*ast.SelectorExpr)
			if !ok {
				return true
			}
			baseIdent, ok := rcvSel.X.(*ast.Ident)
			if !ok || baseIdent.Name != recvName {
				return true
			}
			field := rcvSel.Sel.Name
			method := fnSel.Sel.Name

			if _, ok := sf.RepoFields[field]; ok {
				if repoWriteMethods[method] {
					stats.RepoWriteCalls++
					written[field] = true
				} else {
					stats.RepoReadCalls++
				}
				return true
			}
			if _, ok := sf.AggregateFields[field]; ok && aggregateMethods[method] {
				stats.AggregateCalls++
				aggSeen[method] = true
			}
			return true
		})

		stats.RepoFieldsWritten = sortedKeys(written)
		stats.AggregateMethodsSeen = sortedKeys(aggSeen)
		*out = append(*out, stats)
	}
}

func buildReport(fieldsByStruct map[string]structFields, methods []methodStats) auditReport {
	sort.Slice(methods, func(i, j int) bool {
		if methods[i].File == methods[j].File {
			return methods[i].Line < methods[j].Line
		}
		return methods[i].File < methods[j].File
	})

	report := auditReport{Methods: methods}
	for _, m := range methods {
		report.AggregateCallsites += m.AggregateCalls
		if m.RepoWriteCalls > 0 {
			report.ServiceRepoWriteCallsites += m.RepoWriteCalls
			report.ResidualWriteMethods = append(report.ResidualWriteMethods, m)
		}
	}

	keys := make([]string, 0)
	inventory := map[string]repoField{}
	for structName, sf := range fieldsByStruct {
		for _, rf := range sf.RepoFields {
			key := structName + "." + rf.Name
			keys = append(keys, key)
			inventory[key] = rf
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		report.RepoFieldInventory = append(report.RepoFieldInventory, inventory[k])
	}
	return report
}

func recvInfo(field *ast.Field) (string, string) {
	if field == nil || len(field.Names) == 0 {
		return "", ""
	}
	recvName := field.Names[0].Name
	switch t := field.Type.(type) {
	case *ast.StarExpr:
		if id, ok := t.X.(*ast.Ident); ok {
			return recvName, id.Name
		}
	case *ast.Ident:
		return recvName, t.Name
	}
	return "", ""
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
