package scene

import (
	"fmt"
	"strings"
)

// MissingDefinitionValidator flags entities whose classname resolved to no
// known definition. The quick fix deletes the entity.
type MissingDefinitionValidator struct{}

func (MissingDefinitionValidator) IssueType() IssueType { return IssueMissingDefinition }

func (MissingDefinitionValidator) Validate(n Node) []*Issue {
	entity, ok := n.(*EntityNode)
	if !ok || entity.Definition() != nil {
		return nil
	}
	issue := &Issue{
		Node:        n,
		Type:        IssueMissingDefinition,
		Description: fmt.Sprintf("entity %q has no definition", entity.Classname()),
	}
	issue.Fixes = []QuickFix{{
		Description: "Delete entity",
		Apply: func() error {
			parent := entity.Parent()
			if parent == nil {
				return fmt.Errorf("scene: entity %q has no parent", entity.Classname())
			}
			return parent.RemoveChild(entity)
		},
	}}
	return []*Issue{issue}
}

// MissingModValidator flags worlds whose mods property names search paths
// that are not available. The quick fix trims the unavailable entries.
type MissingModValidator struct {
	// Available is the set of mod search paths that exist.
	Available []string
}

func (MissingModValidator) IssueType() IssueType { return IssueMissingMod }

func (v MissingModValidator) Validate(n Node) []*Issue {
	world, ok := n.(*WorldNode)
	if !ok {
		return nil
	}

	available := make(map[string]bool, len(v.Available))
	for _, mod := range v.Available {
		available[mod] = true
	}

	var missing []string
	var present []string
	for _, mod := range world.EnabledMods() {
		if available[mod] {
			present = append(present, mod)
		} else {
			missing = append(missing, mod)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	issue := &Issue{
		Node:        n,
		Type:        IssueMissingMod,
		Description: fmt.Sprintf("mod not found: %s", strings.Join(missing, ", ")),
	}
	issue.Fixes = []QuickFix{{
		Description: "Remove missing mods",
		Apply: func() error {
			world.SetEnabledMods(present)
			return nil
		},
	}}
	return []*Issue{issue}
}

// QuotedPropertyValueValidator flags property values wrapped in or
// containing double quotation marks, which the map format cannot escape.
// The quick fix strips the quotes.
type QuotedPropertyValueValidator struct{}

func (QuotedPropertyValueValidator) IssueType() IssueType { return IssueQuotedPropertyValue }

func (QuotedPropertyValueValidator) Validate(n Node) []*Issue {
	holder, ok := n.(EntityHolder)
	if !ok {
		return nil
	}

	var issues []*Issue
	for _, prop := range holder.Properties() {
		if !strings.Contains(prop.Value, `"`) {
			continue
		}
		key, value := prop.Key, prop.Value
		issue := &Issue{
			Node:        n,
			Type:        IssueQuotedPropertyValue,
			Description: fmt.Sprintf("value of property %q contains double quotation marks", key),
		}
		issue.Fixes = []QuickFix{{
			Description: "Remove quotation marks",
			Apply: func() error {
				holder.SetProperty(key, strings.ReplaceAll(value, `"`, ""))
				return nil
			},
		}}
		issues = append(issues, issue)
	}
	return issues
}
