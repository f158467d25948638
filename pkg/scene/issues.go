package scene

// IssueType identifies a class of advisory validation findings. Issues
// never block editing; they surface problems the user may want to fix.
type IssueType int

const (
	IssueMissingDefinition IssueType = 1 << iota
	IssueMissingMod
	IssueQuotedPropertyValue

	// IssueAny matches every issue type.
	IssueAny IssueType = -1
)

func (t IssueType) String() string {
	switch t {
	case IssueMissingDefinition:
		return "missing definition"
	case IssueMissingMod:
		return "missing mod"
	case IssueQuotedPropertyValue:
		return "quoted property value"
	default:
		return "any"
	}
}

// Issue is one advisory finding on a node, with zero or more applicable
// fixes.
type Issue struct {
	Node        Node
	Type        IssueType
	Description string
	Fixes       []QuickFix
}

// QuickFix is a canned remedy for an issue. Apply mutates the scene; the
// issue caches of affected nodes are invalidated by the mutation itself.
type QuickFix struct {
	Description string
	Apply       func() error
}

// Validator produces issues of a single type for a node.
type Validator interface {
	IssueType() IssueType
	Validate(n Node) []*Issue
}

// ValidateNode returns the node's issues under the given validators,
// using the node's cache when it is valid. The validator set must be
// stable between calls; changing it requires invalidating the tree.
func ValidateNode(n Node, validators []Validator) []*Issue {
	b := n.base()
	if !b.issuesValid {
		b.issues = nil
		for _, v := range validators {
			b.issues = append(b.issues, v.Validate(n)...)
		}
		b.issuesValid = true
	}
	return b.issues
}

// ValidateTree collects the issues of every node in the subtree whose type
// is in the mask.
func ValidateTree(root Node, validators []Validator, mask IssueType) []*Issue {
	var out []*Issue
	Walk(root, func(n Node) {
		for _, issue := range ValidateNode(n, validators) {
			if issue.Type&mask != 0 {
				out = append(out, issue)
			}
		}
	})
	return out
}

// InvalidateTreeIssues drops the issue caches of every node in the
// subtree.
func InvalidateTreeIssues(root Node) {
	Walk(root, func(n Node) { n.InvalidateIssues() })
}
