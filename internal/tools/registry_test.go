package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func mustRaw(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

func echoDef(t *testing.T) ToolDefinition {
	t.Helper()
	return ToolDefinition{
		StableName:  "echo_url",
		SemVer:      "v1.0.0",
		Description: "echo the url back",
		JSONSchema: mustRaw(t, map[string]any{
			"type": "object",
			"properties": map[string]any{
				"url": map[string]any{"type": "string"},
			},
			"required":             []string{"url"},
			"additionalProperties": false,
		}),
		Capabilities: []string{"fetch"},
		Handler: func(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
			var a struct {
				URL string `json:"url"`
			}
			_ = json.Unmarshal(args, &a)
			return mustRaw(t, map[string]any{"echo": a.URL}), nil
		},
	}
}

func TestRegistry_RegisterAndSpecsAndCatalog(t *testing.T) {
	r := NewRegistry()
	def := echoDef(t)
	if err := r.Register(def); err != nil {
		t.Fatalf("Register: %v", err)
	}

	specs := r.Specs()
	if len(specs) != 1 {
		t.Fatalf("expected 1 spec, got %d", len(specs))
	}
	if specs[0].Name != "echo_url" {
		t.Fatalf("unexpected spec name: %s", specs[0].Name)
	}
	if specs[0].Description == "" || specs[0].Description == def.Description {
		t.Fatalf("expected description to include version suffix, got: %q", specs[0].Description)
	}

	encoded := EncodeTools(specs)
	if encoded[0].Function == nil || encoded[0].Function.Name != "echo_url" {
		t.Fatalf("EncodeTools: wrong function mapping")
	}

	meta := r.Catalog()
	if len(meta) != 1 || meta[0].StableName != "echo_url" || meta[0].SemVer != "v1.0.0" {
		t.Fatalf("unexpected catalog: %+v", meta)
	}
}

func TestRegistry_RegisterValidation(t *testing.T) {
	r := NewRegistry()
	base := echoDef(t)

	bad := base
	bad.StableName = "Echo-URL"
	if err := r.Register(bad); err == nil {
		t.Fatalf("expected error for invalid stable name")
	}

	bad = base
	bad.SemVer = "one.two"
	if err := r.Register(bad); err == nil {
		t.Fatalf("expected error for invalid semver")
	}

	bad = base
	bad.JSONSchema = mustRaw(t, []string{"not", "an", "object"})
	if err := r.Register(bad); err == nil {
		t.Fatalf("expected error for non-object schema")
	}

	bad = base
	bad.Handler = nil
	if err := r.Register(bad); err == nil {
		t.Fatalf("expected error for nil handler")
	}
}

func TestRegistry_SpecsDeterministicOrder(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"zeta_tool", "alpha_tool", "mid_tool"} {
		def := echoDef(t)
		def.StableName = name
		if err := r.Register(def); err != nil {
			t.Fatalf("Register(%s): %v", name, err)
		}
	}
	specs := r.Specs()
	want := []string{"alpha_tool", "mid_tool", "zeta_tool"}
	for i, s := range specs {
		if s.Name != want[i] {
			t.Fatalf("specs out of order: got %v", specs)
		}
	}
}

func TestInvoke_ValidatesArgsBeforeHandler(t *testing.T) {
	r := NewRegistry()
	called := false
	def := echoDef(t)
	def.Handler = func(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
		called = true
		return json.RawMessage(`{}`), nil
	}
	if err := r.Register(def); err != nil {
		t.Fatalf("Register: %v", err)
	}

	// Missing required url
	if _, err := r.Invoke(context.Background(), "echo_url", mustRaw(t, map[string]any{})); err == nil {
		t.Fatalf("expected schema validation error")
	}
	// Wrong type
	if _, err := r.Invoke(context.Background(), "echo_url", mustRaw(t, map[string]any{"url": 42})); err == nil {
		t.Fatalf("expected type error")
	}
	// Unknown extra property rejected by additionalProperties:false
	if _, err := r.Invoke(context.Background(), "echo_url", mustRaw(t, map[string]any{"url": "x", "extra": 1})); err == nil {
		t.Fatalf("expected additionalProperties error")
	}
	if called {
		t.Fatalf("handler must not run on invalid args")
	}

	raw, err := r.Invoke(context.Background(), "echo_url", mustRaw(t, map[string]any{"url": "https://go.dev"}))
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if !called || len(raw) == 0 {
		t.Fatalf("handler should have run with valid args")
	}
}

func TestInvoke_EnforcesNumericMinimum(t *testing.T) {
	r := NewRegistry()
	def := echoDef(t)
	def.JSONSchema = mustRaw(t, map[string]any{
		"type": "object",
		"properties": map[string]any{
			"count": map[string]any{"type": "integer", "minimum": 1},
		},
		"required": []string{"count"},
	})
	def.Handler = func(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
		return json.RawMessage(`{}`), nil
	}
	if err := r.Register(def); err != nil {
		t.Fatalf("Register: %v", err)
	}

	for _, below := range []int{0, -3} {
		if _, err := r.Invoke(context.Background(), "echo_url", mustRaw(t, map[string]any{"count": below})); err == nil {
			t.Fatalf("expected minimum violation for count=%d", below)
		}
	}
	if _, err := r.Invoke(context.Background(), "echo_url", mustRaw(t, map[string]any{"count": 1})); err != nil {
		t.Fatalf("count at the minimum must pass: %v", err)
	}
}

func TestInvoke_UnknownTool(t *testing.T) {
	r := NewRegistry()
	_, err := r.Invoke(context.Background(), "nope", json.RawMessage(`{}`))
	if err == nil {
		t.Fatalf("expected unknown tool error")
	}
	if code := ClassifyError(err); code != "E_UNKNOWN_TOOL" {
		t.Fatalf("expected E_UNKNOWN_TOOL, got %s", code)
	}
}

func TestInvoke_HandlerErrorPropagates(t *testing.T) {
	r := NewRegistry()
	def := echoDef(t)
	wantErr := errors.New("boom")
	def.Handler = func(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
		return nil, wantErr
	}
	if err := r.Register(def); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, err := r.Invoke(context.Background(), "echo_url", mustRaw(t, map[string]any{"url": "x"}))
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected handler error, got %v", err)
	}
}
