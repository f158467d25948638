package scene

import (
	"strings"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestMissingDefinitionValidator(t *testing.T) {
	w := NewWorldNode()
	e := NewEntityNode("custom_thing")
	if err := w.DefaultLayer().AddChild(e); err != nil {
		t.Fatal(err)
	}

	validators := []Validator{MissingDefinitionValidator{}}
	issues := ValidateTree(w, validators, IssueAny)
	if len(issues) != 1 {
		t.Fatalf("issue count = %d, want 1", len(issues))
	}
	issue := issues[0]
	if issue.Type != IssueMissingDefinition || issue.Node != Node(e) {
		t.Errorf("issue = %+v, want missing definition on the entity", issue)
	}
	if !strings.Contains(issue.Description, "custom_thing") {
		t.Errorf("description %q does not name the class", issue.Description)
	}

	// The quick fix deletes the entity.
	if len(issue.Fixes) != 1 {
		t.Fatalf("fix count = %d, want 1", len(issue.Fixes))
	}
	if err := issue.Fixes[0].Apply(); err != nil {
		t.Fatalf("quick fix failed: %v", err)
	}
	if e.Parent() != nil {
		t.Error("entity survives the delete fix")
	}

	// A resolved entity is clean.
	resolved := NewEntityNode("light")
	resolved.SetDefinition(&EntityDefinition{Name: "light"})
	if got := ValidateNode(resolved, validators); len(got) != 0 {
		t.Errorf("resolved entity issues = %v, want none", got)
	}
}

func TestMissingModValidator(t *testing.T) {
	w := NewWorldNode()
	w.SetEnabledMods([]string{"id1", "hipnotic"})

	validators := []Validator{MissingModValidator{Available: []string{"id1"}}}
	issues := ValidateNode(w, validators)
	if len(issues) != 1 {
		t.Fatalf("issue count = %d, want 1", len(issues))
	}
	if issues[0].Type != IssueMissingMod {
		t.Errorf("issue type = %v, want missing mod", issues[0].Type)
	}
	if !strings.Contains(issues[0].Description, "hipnotic") {
		t.Errorf("description %q does not name the missing mod", issues[0].Description)
	}

	// The fix trims the unavailable entry; the mutation invalidates the
	// cache, so revalidation comes up clean.
	if err := issues[0].Fixes[0].Apply(); err != nil {
		t.Fatal(err)
	}
	mods := w.EnabledMods()
	if len(mods) != 1 || mods[0] != "id1" {
		t.Errorf("mods after fix = %v, want [id1]", mods)
	}
	if got := ValidateNode(w, validators); len(got) != 0 {
		t.Errorf("issues after fix = %v, want none", got)
	}
}

func TestQuotedPropertyValueValidator(t *testing.T) {
	e := NewEntityNode("trigger_relay")
	e.SetDefinition(&EntityDefinition{Name: "trigger_relay"})
	e.SetProperty("message", `say "hello"`)

	validators := []Validator{QuotedPropertyValueValidator{}}
	issues := ValidateNode(e, validators)
	if len(issues) != 1 {
		t.Fatalf("issue count = %d, want 1", len(issues))
	}
	if issues[0].Type != IssueQuotedPropertyValue {
		t.Errorf("issue type = %v, want quoted property value", issues[0].Type)
	}

	if err := issues[0].Fixes[0].Apply(); err != nil {
		t.Fatal(err)
	}
	if got, _ := e.Property("message"); got != "say hello" {
		t.Errorf("message after fix = %q, want quotes stripped", got)
	}
	if got := ValidateNode(e, validators); len(got) != 0 {
		t.Errorf("issues after fix = %v, want none", got)
	}
}

func TestValidateNodeCaches(t *testing.T) {
	e := NewEntityNode("custom_thing")
	validators := []Validator{MissingDefinitionValidator{}}

	first := ValidateNode(e, validators)
	second := ValidateNode(e, validators)
	if len(first) != 1 || len(second) != 1 || first[0] != second[0] {
		t.Error("cached validation must return the same issues")
	}

	// Resolving the definition invalidates the cache.
	e.SetDefinition(&EntityDefinition{Name: "custom_thing"})
	if got := ValidateNode(e, validators); len(got) != 0 {
		t.Errorf("issues after resolving = %v, want none", got)
	}
}

func TestValidateTreeMask(t *testing.T) {
	w := NewWorldNode()
	w.SetEnabledMods([]string{"missing"})
	e := NewEntityNode("custom_thing")
	if err := w.DefaultLayer().AddChild(e); err != nil {
		t.Fatal(err)
	}

	validators := []Validator{
		MissingDefinitionValidator{},
		MissingModValidator{},
	}

	all := ValidateTree(w, validators, IssueAny)
	if len(all) != 2 {
		t.Fatalf("all issues = %d, want 2", len(all))
	}
	defOnly := ValidateTree(w, validators, IssueMissingDefinition)
	if len(defOnly) != 1 || defOnly[0].Type != IssueMissingDefinition {
		t.Errorf("masked issues = %v, want only the missing definition", defOnly)
	}
}

func TestInvalidateTreeIssues(t *testing.T) {
	w := NewWorldNode()
	e := NewEntityNode("custom_thing")
	if err := w.DefaultLayer().AddChild(e); err != nil {
		t.Fatal(err)
	}

	// Prime with an empty validator set, then switch sets. The stale empty
	// result stays cached until the tree is invalidated.
	if got := ValidateTree(w, nil, IssueAny); len(got) != 0 {
		t.Fatal("no validators must yield no issues")
	}
	validators := []Validator{MissingDefinitionValidator{}}
	if got := ValidateTree(w, validators, IssueAny); len(got) != 0 {
		t.Fatal("cache must mask the validator change until invalidation")
	}

	InvalidateTreeIssues(w)
	if got := ValidateTree(w, validators, IssueAny); len(got) != 1 {
		t.Errorf("issues after invalidation = %d, want 1", len(got))
	}
}

func TestIssueTypeString(t *testing.T) {
	cases := map[IssueType]string{
		IssueMissingDefinition:   "missing definition",
		IssueMissingMod:          "missing mod",
		IssueQuotedPropertyValue: "quoted property value",
		IssueAny:                 "any",
	}
	for it, want := range cases {
		if got := it.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(it), got, want)
		}
	}
}

func TestBrushEditInvalidatesIssues(t *testing.T) {
	// SetBrush drops the cached issues so stale findings disappear.
	n := makeBrushNode(t, v3.Vec{}, v3.Vec{X: 1, Y: 1, Z: 1}, "stone")
	if got := ValidateNode(n, nil); len(got) != 0 {
		t.Fatal("brush node must start clean")
	}
	if n.base().issuesValid != true {
		t.Fatal("validation must prime the cache")
	}
	n.SetBrush(makeBrush(t, v3.Vec{}, v3.Vec{X: 2, Y: 2, Z: 2}, "stone"))
	if n.base().issuesValid {
		t.Error("SetBrush must drop the issue cache")
	}
}
