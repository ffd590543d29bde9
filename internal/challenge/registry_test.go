package challenge

import (
	"errors"
	"testing"
)

func TestZyncType(t *testing.T) {
	zt := ZyncType()
	if zt.ID != "zync" || zt.Name != "zync" {
		t.Errorf("ZyncType id/name = %q/%q", zt.ID, zt.Name)
	}
	if zt.Route != "/plugins/zync/assets" {
		t.Errorf("Route = %q", zt.Route)
	}
	for _, k := range []string{"create", "update", "view"} {
		if zt.Templates[k] != "/plugins/zync/assets/"+k+".html" {
			t.Errorf("Templates[%s] = %q", k, zt.Templates[k])
		}
		if zt.Scripts[k] != "/plugins/zync/assets/"+k+".js" {
			t.Errorf("Scripts[%s] = %q", k, zt.Scripts[k])
		}
	}
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(ZyncType()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(ZyncType()); !errors.Is(err, ErrDuplicateType) {
		t.Errorf("second Register err = %v, want ErrDuplicateType", err)
	}
	if err := r.Register(Type{}); err == nil {
		t.Error("Register with empty id should fail")
	}
	got, ok := r.Get("zync")
	if !ok || got.ID != "zync" {
		t.Errorf("Get = %+v, %v", got, ok)
	}
	if _, ok := r.Get("standard"); ok {
		t.Error("Get for unregistered id should be false")
	}
}

func TestRegistry_ListSorted(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(Type{ID: "zync"})
	_ = r.Register(Type{ID: "dynamic"})
	_ = r.Register(Type{ID: "standard"})
	list := r.List()
	if len(list) != 3 {
		t.Fatalf("len = %d, want 3", len(list))
	}
	if list[0].ID != "dynamic" || list[1].ID != "standard" || list[2].ID != "zync" {
		t.Errorf("List order = %v", []string{list[0].ID, list[1].ID, list[2].ID})
	}
}
