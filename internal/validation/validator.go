// Package validation checks request input against the per-operation JSON schemas
// in schemas/ and reports every broken rule as a domain.ValidationError.
package validation

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	dom "TodoAPI/internal/domain"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schemas/*.json
var schemasFS embed.FS

// Schema names one operation's schema file under schemas/.
type Schema string

const (
	CreateTodo Schema = "create_todo"
	UpdateTodo Schema = "update_todo"
	GetTodo    Schema = "get_todo"
)

var allSchemas = []Schema{CreateTodo, UpdateTodo, GetTodo}

// Input is the part of a request a schema sees.
type Input struct {
	Body   []byte
	Params map[string]string
	Query  map[string]string
}

// Validator validates request input against the compiled schemas.
type Validator struct {
	schemas map[Schema]*jsonschema.Schema
	printer *message.Printer
}

// New compiles the embedded schemas.
func New() (*Validator, error) {
	c := jsonschema.NewCompiler()
	c.RegisterFormat(nonBlank)
	c.RegisterFormat(dateTime)
	c.AssertFormat()

	v := &Validator{
		schemas: make(map[Schema]*jsonschema.Schema, len(allSchemas)),
		printer: message.NewPrinter(language.English),
	}
	for _, name := range allSchemas {
		file := "schemas/" + string(name) + ".json"
		data, err := schemasFS.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", name, err)
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("unmarshal schema %s: %w", name, err)
		}
		url := string(name) + ".json"
		if err := c.AddResource(url, doc); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", name, err)
		}
		sch, err := c.Compile(url)
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", name, err)
		}
		v.schemas[name] = sch
	}
	return v, nil
}

// Validate checks in against the named schema. It returns nil, a *dom.ValidationError
// listing every violation, or a 400 *dom.AppError when the body is not JSON.
func (v *Validator) Validate(name Schema, in Input) error {
	sch, ok := v.schemas[name]
	if !ok {
		return fmt.Errorf("validation: unknown schema %q", name)
	}
	doc, err := in.document()
	if err != nil {
		return err
	}

	err = sch.Validate(doc)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return fmt.Errorf("validate %s: %w", name, err)
	}
	violations := v.collect(ve, nil)
	sortByDeclaration(violations)
	return dom.NewValidationError(violations)
}

// document assembles {"body", "params", "query"}. An empty body counts as {}.
func (in Input) document() (map[string]any, error) {
	var body any = map[string]any{}
	if len(bytes.TrimSpace(in.Body)) > 0 {
		decoded, err := jsonschema.UnmarshalJSON(bytes.NewReader(in.Body))
		if err != nil {
			return nil, dom.NewAppError(http.StatusBadRequest, "Malformed JSON body")
		}
		body = decoded
	}
	return map[string]any{
		"body":   body,
		"params": stringMap(in.Params),
		"query":  stringMap(in.Query),
	}, nil
}

func stringMap(m map[string]string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// collect flattens the error tree into violations. A node with its own entry in the
// message table (e.g. the update anyOf) is reported once instead of its causes.
func (v *Validator) collect(ve *jsonschema.ValidationError, out []dom.Violation) []dom.Violation {
	path := strings.Join(ve.InstanceLocation, ".")
	keyword := keywordOf(ve.ErrorKind)

	if msg, ok := messages[path+"|"+keyword]; ok && len(ve.Causes) > 0 {
		return append(out, dom.Violation{Path: path, Message: msg})
	}
	if len(ve.Causes) > 0 {
		for _, cause := range ve.Causes {
			out = v.collect(cause, out)
		}
		return out
	}

	if req, ok := ve.ErrorKind.(*kind.Required); ok {
		for _, field := range req.Missing {
			p := joinPath(path, field)
			out = append(out, dom.Violation{Path: p, Message: v.message(p, "required", ve)})
		}
		return out
	}
	return append(out, dom.Violation{Path: path, Message: v.message(path, keyword, ve)})
}

func (v *Validator) message(path, keyword string, ve *jsonschema.ValidationError) string {
	if msg, ok := messages[path+"|"+keyword]; ok {
		return msg
	}
	return ve.ErrorKind.LocalizedString(v.printer)
}

func keywordOf(k jsonschema.ErrorKind) string {
	if k == nil {
		return ""
	}
	kp := k.KeywordPath()
	if len(kp) == 0 {
		return ""
	}
	return kp[len(kp)-1]
}

func joinPath(parent, field string) string {
	if parent == "" {
		return field
	}
	return parent + "." + field
}

// sortByDeclaration orders violations by field declaration order. Schema properties
// are evaluated in map order, so the raw tree order is not stable.
func sortByDeclaration(vs []dom.Violation) {
	sort.SliceStable(vs, func(i, j int) bool {
		return rank(vs[i].Path) < rank(vs[j].Path)
	})
}

func rank(path string) int {
	for i, p := range fieldOrder {
		if p == path {
			return i
		}
	}
	return len(fieldOrder)
}
