package ui

import (
	"fmt"
	"net/http"
	"strconv"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"moleculehub/internal/domain"
)

// maxIssuesShown caps the row-issue table on the preview page.
const maxIssuesShown = 50

type navItem struct {
	Label string
	Href  string
	Key   string
}

var navItems = []navItem{
	{Label: "Imports", Href: "/ui", Key: "imports"},
	{Label: "Molecules", Href: "/ui/molecules", Key: "molecules"},
}

func appPage(title, active, principal string, body ...Node) Node {
	nav := make([]Node, 0, len(navItems))
	for _, item := range navItems {
		className := "app-nav-link"
		if item.Key == active {
			className += " active"
		}
		nav = append(nav, A(Href(item.Href), Class(className), Text(item.Label)))
	}

	return Doctype(HTML(
		Lang("en"),
		Head(
			Meta(Charset("utf-8")),
			Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
			TitleEl(Text(title+" | MoleculeHub")),
			Link(Rel("stylesheet"), Href("/ui/static/app.css")),
		),
		Body(
			Main(Class("app-shell"),
				Aside(Class("app-sidebar"),
					Strong(Text("MoleculeHub")),
					P(Class("muted"), Text("Molecule import")),
					Nav(Group(nav)),
				),
				Section(Class("app-main"),
					Div(Class("topbar"),
						H1(Text(title)),
						Span(Class("muted"), Text("Acting as "+principal)),
					),
					Group(body),
				),
			),
		),
	))
}

func errorPage(title, message string) Node {
	return appPage(title, "", domain.AnonymousPrincipal,
		Div(Class("card flash-error"), P(Text(message))),
		P(A(Href("/ui"), Text("Back to imports"))),
	)
}

// === Imports list ===

func importsPage(r *http.Request, principal string, sessions []domain.ImportSession, total int64) Node {
	rows := make([]Node, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, Tr(
			Td(A(Href("/ui/imports/"+s.ID), Text(s.Filename))),
			Td(statusBadge(s.Status)),
			Td(Text(strconv.Itoa(s.RowCount))),
			Td(Text(s.CreatedBy)),
			Td(Text(s.CreatedAt.Format("2006-01-02 15:04"))),
		))
	}

	return appPage("Imports", "imports", principal,
		Div(Class("card"),
			H2(Text("Upload a file")),
			P(Class("muted"), Text("CSV or TSV with a header row. Columns are mapped to molecular properties on the next page.")),
			Form(Method("post"), Action("/ui/imports"), EncType("multipart/form-data"),
				csrfField(r),
				Input(Type("file"), Name("file"), Accept(".csv,.tsv,.tab,.txt"), Required()),
				Button(Type("submit"), Class("btn btn-primary"), Text("Upload")),
			),
		),
		H2(Textf("Sessions (%d)", total)),
		If(len(sessions) == 0, P(Class("muted"), Text("No imports yet."))),
		If(len(sessions) > 0, Table(
			THead(Tr(Th(Text("File")), Th(Text("Status")), Th(Text("Rows")), Th(Text("Uploaded by")), Th(Text("Created")))),
			TBody(Group(rows)),
		)),
	)
}

func statusBadge(s domain.ImportStatus) Node {
	return Span(Class("badge"), Text(string(s)))
}

// === Preview ===

type previewData struct {
	View     *domain.ImportSessionView
	Report   *domain.ValidationReport
	Registry domain.PropertyRegistry
	// Refused is set when a commit attempt was rejected for an invalid mapping.
	Refused bool
}

func previewPage(r *http.Request, principal string, d previewData) Node {
	s := d.View.Session
	pending := s.Status == domain.ImportStatusPending
	base := "/ui/imports/" + s.ID

	return appPage(s.Filename, "imports", principal,
		P(Class("muted"),
			statusBadge(s.Status),
			Textf(" %d rows, %d columns", s.RowCount, len(s.Headers)),
		),
		validationBox(d.View.Validation, d.Refused),
		resultBox(s.Result),
		H2(Text("Column mapping")),
		mappingTable(r, d, pending),
		If(pending, Div(Class("actions"),
			postButton(r, base+"/suggestions", "Apply suggestions", "btn"),
			commitButton(r, base+"/commit", d.View.Validation.IsValid),
			postButton(r, base+"/abandon", "Abandon", "btn btn-danger"),
		)),
		H2(Text("Preview")),
		sampleTable(s.Headers, d.View.SampleRows),
		issuesTable(d.Report),
	)
}

// validationBox lists every message of the current validation result.
func validationBox(v domain.ValidationResult, refused bool) Node {
	if v.IsValid {
		return Div(Class("card flash-ok"), P(Text("The column mapping is valid.")))
	}
	items := make([]Node, 0, len(v.Errors))
	for _, msg := range v.Errors {
		items = append(items, Li(Text(msg)))
	}
	heading := "The column mapping is not valid yet:"
	if refused {
		heading = "Commit refused. The column mapping is not valid:"
	}
	return Div(Class("card flash-error"), ID("validation-errors"),
		P(Strong(Text(heading))),
		Ul(Group(items)),
	)
}

func resultBox(res *domain.ImportResult) Node {
	if res == nil {
		return nil
	}
	return Div(Class("card flash-ok"),
		P(Textf("Imported %d of %d rows. %d duplicates, %d skipped.",
			res.Imported, res.RowsTotal, res.Duplicates, res.Skipped)),
	)
}

func mappingTable(r *http.Request, d previewData, pending bool) Node {
	s := d.View.Session
	rows := make([]Node, 0, len(s.Mappings))
	for _, m := range s.Mappings {
		suggested, _ := s.Suggestions.Target(m.SourceColumn)
		var target Node
		if pending {
			target = Form(Method("post"), Action("/ui/imports/"+s.ID+"/mappings"),
				csrfField(r),
				Input(Type("hidden"), Name("source_column"), Value(m.SourceColumn)),
				Select(Name("target_field"), Attr("onchange", "this.form.submit()"),
					propertyOptions(d.Registry, m.TargetField),
				),
				Button(Type("submit"), Class("btn"), Text("Save")),
			)
		} else {
			target = Text(propertyLabel(d.Registry, m.TargetField))
		}
		rows = append(rows, Tr(
			Td(Code(Text(m.SourceColumn))),
			Td(target),
			Td(Class("muted"), Text(propertyLabel(d.Registry, suggested))),
		))
	}
	return Table(
		THead(Tr(Th(Text("Column")), Th(Text("Mapped to")), Th(Text("Suggested")))),
		TBody(Group(rows)),
	)
}

func propertyOptions(reg domain.PropertyRegistry, selected string) Node {
	opts := []Node{Option(Value(""), Text("(not mapped)"), If(selected == domain.Unmapped, Selected()))}
	for _, def := range reg.Properties() {
		opts = append(opts, Option(Value(def.Key), Text(optionLabel(def)), If(def.Key == selected, Selected())))
	}
	return Group(opts)
}

func optionLabel(def domain.PropertyDefinition) string {
	label := def.DisplayName
	if def.Unit != "" {
		label += " (" + def.Unit + ")"
	}
	if def.Required {
		label += " *"
	}
	return label
}

func propertyLabel(reg domain.PropertyRegistry, key string) string {
	if key == domain.Unmapped {
		return "-"
	}
	if def, ok := reg.Lookup(key); ok {
		return def.DisplayName
	}
	return key
}

func sampleTable(headers []string, rows []domain.Row) Node {
	if len(rows) == 0 {
		return P(Class("muted"), Text("No rows to preview."))
	}
	head := make([]Node, 0, len(headers))
	for _, h := range headers {
		head = append(head, Th(Text(h)))
	}
	body := make([]Node, 0, len(rows))
	for _, row := range rows {
		cells := make([]Node, 0, len(headers))
		for _, h := range headers {
			cells = append(cells, Td(Text(row[h])))
		}
		body = append(body, Tr(cells...))
	}
	return Table(THead(Tr(head...)), TBody(body...))
}

func issuesTable(report *domain.ValidationReport) Node {
	if report == nil || len(report.RowIssues) == 0 {
		return nil
	}
	issues := report.RowIssues
	shown := issues
	if len(shown) > maxIssuesShown {
		shown = shown[:maxIssuesShown]
	}
	rows := make([]Node, 0, len(shown))
	for _, i := range shown {
		rows = append(rows, Tr(
			Td(Text(strconv.Itoa(i.Row))),
			Td(Code(Text(i.Column))),
			Td(Text(i.Message)),
		))
	}
	return Group{
		H2(Textf("Row issues (%d)", len(issues))),
		P(Class("muted"), Text("Rows with issues are skipped on commit.")),
		Table(
			THead(Tr(Th(Text("Row")), Th(Text("Column")), Th(Text("Problem")))),
			TBody(rows...),
		),
		If(len(issues) > maxIssuesShown, P(Class("muted"), Text(fmt.Sprintf("%d more not shown.", len(issues)-maxIssuesShown)))),
	}
}

func postButton(r *http.Request, action, label, class string) Node {
	return Form(Method("post"), Action(action),
		csrfField(r),
		Button(Type("submit"), Class(class), Text(label)),
	)
}

func commitButton(r *http.Request, action string, valid bool) Node {
	return Form(Method("post"), Action(action),
		csrfField(r),
		Button(Type("submit"), Class("btn btn-primary"), If(!valid, Disabled()), Text("Commit import")),
	)
}

// === Molecules ===

func moleculesPage(principal string, mols []domain.Molecule, total int64) Node {
	rows := make([]Node, 0, len(mols))
	for _, m := range mols {
		rows = append(rows, Tr(
			Td(Code(Text(m.SMILES))),
			Td(Text(propertyText(m.Properties, "name"))),
			Td(Text(strconv.Itoa(len(m.Properties)))),
			Td(Text(m.CreatedBy)),
			Td(Text(m.CreatedAt.Format("2006-01-02 15:04"))),
		))
	}
	return appPage("Molecules", "molecules", principal,
		P(Class("muted"), Textf("%d molecules", total)),
		Table(
			THead(Tr(Th(Text("SMILES")), Th(Text("Name")), Th(Text("Properties")), Th(Text("Imported by")), Th(Text("Created")))),
			TBody(rows...),
		),
	)
}

func propertyText(props map[string]any, key string) string {
	v, ok := props[key]
	if !ok || v == nil {
		return "-"
	}
	return fmt.Sprint(v)
}
