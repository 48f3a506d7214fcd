package checksum

import (
	"testing"
	"time"

	"github.com/starford/fieldkit/internal/models"
)

func TestSumKnownValue(t *testing.T) {
	got := Sum([]byte("abc"))
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got != want {
		t.Errorf("Sum = %s, want %s", got, want)
	}
}

func TestComponentChangesWithContent(t *testing.T) {
	c := models.Component{ID: "1", Name: "温度传感器", Type: "数字", CreatedAt: time.Unix(0, 0).UTC(), Tags: []string{"传感器"}}
	a := Component(c)
	if a != Component(c) {
		t.Fatal("digest is not stable")
	}
	c.Description = "室内"
	if a == Component(c) {
		t.Error("digest did not change after an edit")
	}
}
