// Package tabler projects typed records onto tables and writes them in
// multiple output formats.
//
// A [Schema] lists the fields of a record type in column order. Each
// [Field] says when it becomes a column ([Visibility]), how its value turns
// into cell text ([RenderMode]) and whether it drives row colors. Declare a
// schema explicitly with [NewSchema], or derive one from struct tags with
// [FromStruct]:
//
//	type Server struct {
//		ID     int               `table:"ID"`
//		Name   string            `table:"NAME"`
//		Status string            `table:"STATUS,status"`
//		Labels map[string]string `table:"LABELS,wide,pretty"`
//	}
//
//	schema := tabler.MustFromStruct[Server]()
//	err := tabler.Render(os.Stdout, schema, &tabler.Config{Wide: true}, servers...)
//
// # Projection
//
// [Build] projects a collection into a [Result]: one header and one row per
// record, always of equal length. [Project] projects a single record and
// [Describe] transposes one record into Attribute/Value rows.
//
// WideOnly fields appear only with [Config.Wide]. An OptionalIfPresent
// field becomes a column when at least one record carries a value for it;
// the other records get an empty cell. An empty collection still yields a
// header computed from the schema alone.
//
// # Values
//
// Accessors return a [Value]: [Null], [String], [Number], [Bool], [Map],
// [List] or [Optional]. [ValueOf] converts ordinary Go values.
//
// Plain fields render scalars and reject structured values with
// [ErrUnsupportedRenderMode]. Pretty fields serialize structured values as
// JSON with sorted keys. JSONPath fields extract one node:
//
//	tabler.JSONPath(`metadata.labels["app.kubernetes.io/name"]`)
//	tabler.JSONPath("/spec/ports/0/port")
//
// A path that does not resolve leaves the cell empty, or fails with
// [ErrPathNotFound] under [Config.Strict].
//
// # Configuration
//
// [Config] keys (Fields, Rename, Paths, Colors) match field names, headers
// and status values case-insensitively. [LoadConfig] reads a Config from
// YAML.
//
// # Formats
//
// [Write] and [Marshal] emit a Result in the [Format] it was built for:
// table, CSV, TSV, JSON, JSONL, YAML, Markdown, HTML or a [GoTemplate].
// Serialized cells are escaped for CSV and TSV while the table is built,
// so nested JSON survives a round trip through a CSV parser.
//
// # Errors
//
// The package exports sentinel errors for programmatic handling:
//
//   - [ErrUnsupportedFormat]: unknown format string
//   - [ErrInvalidTemplate]: invalid go-template syntax
//   - [ErrUnsupportedRenderMode]: structured value on a Plain field
//   - [ErrPathNotFound]: path did not resolve in strict mode
//   - [ErrDuplicateStatusField]: two fields marked Status
//   - [ErrColumnWidthMismatch]: internal row/header divergence
package tabler
