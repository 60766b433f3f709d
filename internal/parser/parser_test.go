package parser

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/mcncl/anyrt/internal/errors"
	"github.com/mcncl/anyrt/internal/models"
)

func TestParse_SimpleObject(t *testing.T) {
	jsonStr := `{"name": "John Doe", "age": 30, "isStudent": false, "city": null}`
	ir, err := Parse(strings.NewReader(jsonStr))
	if err != nil {
		t.Fatalf("Parse() error = %v, wantErr nil", err)
	}

	expectedRoot := models.JSONObject{
		"name":      "John Doe",
		"age":       json.Number("30"),
		"isStudent": false,
		"city":      nil,
	}
	if !reflect.DeepEqual(ir.Root, expectedRoot) {
		t.Errorf("Parse() root = %v, want %v", ir.Root, expectedRoot)
	}
}

func TestParse_NestedArrayIsNormalized(t *testing.T) {
	jsonStr := `[{"tags": ["go", "json"]}, [1, 2.5]]`
	ir, err := Parse(strings.NewReader(jsonStr))
	if err != nil {
		t.Fatalf("Parse() error = %v, wantErr nil", err)
	}

	expectedRoot := models.JSONArray{
		models.JSONObject{"tags": models.JSONArray{"go", "json"}},
		models.JSONArray{json.Number("1"), json.Number("2.5")},
	}
	if !reflect.DeepEqual(ir.Root, expectedRoot) {
		t.Errorf("Parse() root = %#v, want %#v", ir.Root, expectedRoot)
	}
}

func TestParse_EmptyInput(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	if !stderrors.Is(err, errors.ErrEmptyInput) {
		t.Errorf("Parse() with empty reader, err = %v, want ErrEmptyInput", err)
	}
}

func TestParseString_EmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t"} {
		_, err := ParseString(input)
		if !stderrors.Is(err, errors.ErrEmptyInput) {
			t.Errorf("ParseString(%q) err = %v, want ErrEmptyInput", input, err)
		}
	}
}

func TestParse_MalformedJSON(t *testing.T) {
	testCases := []struct {
		name       string
		input      string
		incomplete bool
	}{
		{"missing closing brace", `{"name": "John Doe", "age": 30`, true},
		{"missing closing bracket", `["item1", "item2",`, true},
		{"bad token", `{"a": tru}`, false},
		{"single quotes", `{'a': 1}`, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseString(tc.input)
			if !stderrors.Is(err, errors.ErrInvalidJSON) {
				t.Fatalf("ParseString() err = %v, want ErrInvalidJSON", err)
			}
			if !stderrors.Is(err, &errors.AppError{Type: errors.ErrorTypeParsing}) {
				t.Errorf("ParseString() err = %v, want a parsing error", err)
			}
			if got := IsIncomplete(err); got != tc.incomplete {
				t.Errorf("IsIncomplete() = %v, want %v", got, tc.incomplete)
			}
		})
	}
}

func TestParse_IncompleteInputWrapsUnexpectedEOF(t *testing.T) {
	_, err := ParseString(`{"a": [1, 2`)
	if !stderrors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("ParseString() err = %v, want io.ErrUnexpectedEOF in the chain", err)
	}

	// The check follows the error chain, not the message text.
	wrapped := errors.NewParsingError("while reading stdin", err)
	if !IsIncomplete(wrapped) {
		t.Errorf("IsIncomplete() = false for a wrapped truncation error")
	}
	if IsIncomplete(errors.NewParsingError("unexpected end of JSON input", errors.ErrInvalidJSON)) {
		t.Errorf("IsIncomplete() = true for an error that only shares the message")
	}
}

func TestParse_NestingBeyondDecoderLimit(t *testing.T) {
	for _, depth := range []int{MaxNesting + 1, 2 * MaxNesting} {
		text := strings.Repeat("[", depth) + strings.Repeat("]", depth)
		_, err := ParseString(text)
		if !stderrors.Is(err, errors.ErrDepthExceeded) {
			t.Fatalf("ParseString(%d levels) err = %v, want ErrDepthExceeded", depth, err)
		}
		if stderrors.Is(err, errors.ErrInvalidJSON) {
			t.Errorf("ParseString(%d levels) err = %v, should not be reported as invalid JSON", depth, err)
		}
	}

	text := strings.Repeat("[", MaxNesting) + strings.Repeat("]", MaxNesting)
	if _, err := ParseString(text); err != nil {
		t.Errorf("ParseString(%d levels) err = %v, want nil", MaxNesting, err)
	}
}

func TestParse_MultipleValues(t *testing.T) {
	_, err := ParseString(`{"a": 1} {"b": 2}`)
	if !stderrors.Is(err, errors.ErrMultipleJSON) {
		t.Errorf("ParseString() err = %v, want ErrMultipleJSON", err)
	}

	if _, err := ParseString("{\"a\": 1}\n\n  "); err != nil {
		t.Errorf("ParseString() with trailing whitespace err = %v, want nil", err)
	}
}

func TestParseFile_SimpleObject(t *testing.T) {
	content := `{"product": "Laptop", "price": 1200.50}`
	tmpfile, err := os.CreateTemp("", "test_simple_*.json")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatalf("Failed to write to temp file: %v", err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatalf("Failed to close temp file: %v", err)
	}

	ir, err := ParseFile(tmpfile.Name())
	if err != nil {
		t.Fatalf("ParseFile() error = %v, wantErr nil", err)
	}

	expectedRoot := models.JSONObject{
		"product": "Laptop",
		"price":   json.Number("1200.50"),
	}
	if !reflect.DeepEqual(ir.Root, expectedRoot) {
		t.Errorf("ParseFile() root = %v, want %v", ir.Root, expectedRoot)
	}
}

func TestParseFile_Errors(t *testing.T) {
	if _, err := ParseFile("nonexistentfile.json"); !stderrors.Is(err, errors.ErrFileNotFound) {
		t.Errorf("ParseFile() with non-existent file, err = %v, want ErrFileNotFound", err)
	}

	if _, err := ParseFile(""); !stderrors.Is(err, errors.ErrInvalidFilePath) {
		t.Errorf("ParseFile() with empty path, err = %v, want ErrInvalidFilePath", err)
	}

	tmpfile, err := os.CreateTemp("", "test_empty_*.json")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpfile.Name())
	if err := tmpfile.Close(); err != nil {
		t.Fatalf("Failed to close temp file: %v", err)
	}

	if _, err := ParseFile(tmpfile.Name()); !stderrors.Is(err, errors.ErrFileEmpty) {
		t.Errorf("ParseFile() with empty file content, err = %v, want ErrFileEmpty", err)
	}
}

func TestParse_RootPrimitives(t *testing.T) {
	testCases := []struct {
		name        string
		jsonStr     string
		expectedVal interface{}
		kind        models.NodeKind
	}{
		{"RootString", `"hello world"`, "hello world", models.NodeString},
		{"RootFloat", `123.45`, json.Number("123.45"), models.NodeFloat},
		{"RootInt", `-7`, json.Number("-7"), models.NodeInt},
		{"RootExponent", `1e3`, json.Number("1e3"), models.NodeFloat},
		{"RootBooleanTrue", `true`, true, models.NodeBool},
		{"RootBooleanFalse", `false`, false, models.NodeBool},
		{"RootNull", `null`, nil, models.NodeNull},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ir, err := Parse(strings.NewReader(tc.jsonStr))
			if err != nil {
				t.Fatalf("Parse() error = %v, wantErr nil", err)
			}
			if !reflect.DeepEqual(ir.Root, tc.expectedVal) {
				t.Errorf("Parse() root = %#v (type %T), want %#v (type %T)", ir.Root, ir.Root, tc.expectedVal, tc.expectedVal)
			}
			if got := models.KindOf(ir.Root); got != tc.kind {
				t.Errorf("KindOf() = %s, want %s", got, tc.kind)
			}
		})
	}
}

func TestKindOf_LargeIntegerIsFloat(t *testing.T) {
	if got := models.KindOf(json.Number("99999999999999999999")); got != models.NodeFloat {
		t.Errorf("KindOf() = %s, want float", got)
	}
	if got := models.KindOf(json.Number("1e400")); got != models.NodeFloat {
		t.Errorf("KindOf(1e400) = %s, want float", got)
	}
	if got := models.KindOf(struct{}{}); got != models.NodeInvalid {
		t.Errorf("KindOf() = %s, want invalid", got)
	}
}
