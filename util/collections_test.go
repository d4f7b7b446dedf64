package util

import (
	"reflect"
	"strings"
	"testing"
)

func TestUnique(t *testing.T) {
	got := Unique([]string{"b", "a", "b", "c", "a"})
	if want := []string{"b", "a", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Unique = %v, want %v", got, want)
	}
	if got := Unique([]int(nil)); len(got) != 0 {
		t.Errorf("Unique(nil) = %v", got)
	}
}

func TestUniqueBy(t *testing.T) {
	got := UniqueBy([]string{"Users", "users", "Orders"}, strings.ToLower)
	if want := []string{"Users", "Orders"}; !reflect.DeepEqual(got, want) {
		t.Errorf("UniqueBy = %v, want %v", got, want)
	}
}

func TestSortedKeys(t *testing.T) {
	got := SortedKeys(map[string]int{"users": 1, "orders": 2, "audit": 3})
	if want := []string{"audit", "orders", "users"}; !reflect.DeepEqual(got, want) {
		t.Errorf("SortedKeys = %v, want %v", got, want)
	}
}
