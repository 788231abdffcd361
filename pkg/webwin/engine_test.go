package webwin

import (
	"reflect"
	"testing"
)

func TestEngineRegistry_Native(t *testing.T) {
	tests := []struct {
		name    string
		engines []Engine
		want    string
	}{
		{"empty", nil, ""},
		{"cef first", []Engine{&fakeEngine{name: "lorca", available: true}, &fakeEngine{name: EngineQt5, available: true}, &fakeEngine{name: EngineCEF, available: true}}, EngineCEF},
		{"qt5 when cef missing", []Engine{&fakeEngine{name: "lorca", available: true}, &fakeEngine{name: EngineQt5, available: true}}, EngineQt5},
		{"other engine", []Engine{&fakeEngine{name: EngineCEF}, &fakeEngine{name: "lorca", available: true}}, "lorca"},
		{"none available", []Engine{&fakeEngine{name: EngineCEF}, &fakeEngine{name: "lorca"}}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := NewEngineRegistry(tt.engines...).Native()
			got := ""
			if ok {
				got = e.Name()
			}
			if got != tt.want {
				t.Errorf("Native() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEngineRegistry_RegisterReplaces(t *testing.T) {
	r := NewEngineRegistry(&fakeEngine{name: "a"}, &fakeEngine{name: "b"})
	replacement := &fakeEngine{name: "a", available: true}
	r.Register(replacement)

	if got := r.Names(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Names() = %v", got)
	}
	if e, _ := r.Lookup("a"); e != Engine(replacement) {
		t.Error("Register should replace the engine")
	}

	var nilRegistry *EngineRegistry
	if _, ok := nilRegistry.Lookup("a"); ok {
		t.Error("nil registry Lookup() = true")
	}
	if _, ok := nilRegistry.Native(); ok {
		t.Error("nil registry Native() = true")
	}
}
