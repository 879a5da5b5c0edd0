package categories

import (
	"sort"
	"strings"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
)

// Node is a category positioned in the tree.
type Node struct {
	models.Category
	Depth int
}

// IndentedName renders the category for selection lists, e.g. "└── Shoes".
func (n Node) IndentedName() string {
	return "└" + strings.Repeat("─", n.Depth) + " " + n.Name
}

// Depth counts the ancestors of id. Unknown ids and broken chains stop the walk.
func Depth(byID map[uuid.UUID]models.Category, id uuid.UUID) int {
	depth := 0
	seen := map[uuid.UUID]struct{}{id: {}}
	current, ok := byID[id]
	for ok && current.ParentID != nil {
		if _, loop := seen[*current.ParentID]; loop {
			break
		}
		seen[*current.ParentID] = struct{}{}
		current, ok = byID[*current.ParentID]
		if ok {
			depth++
		}
	}
	return depth
}

// isAncestor reports whether candidate appears on the parent chain starting at id (inclusive).
func isAncestor(byID map[uuid.UUID]models.Category, candidate, id uuid.UUID) bool {
	seen := map[uuid.UUID]struct{}{}
	next := &id
	for next != nil {
		if *next == candidate {
			return true
		}
		if _, loop := seen[*next]; loop {
			return false
		}
		seen[*next] = struct{}{}
		current, ok := byID[*next]
		if !ok {
			return false
		}
		next = current.ParentID
	}
	return false
}

// descendants returns id and every category below it.
func descendants(all []models.Category, id uuid.UUID) []uuid.UUID {
	children := map[uuid.UUID][]uuid.UUID{}
	for _, c := range all {
		if c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c.ID)
		}
	}
	out := []uuid.UUID{}
	seen := map[uuid.UUID]struct{}{}
	queue := []uuid.UUID{id}
	for len(queue) > 0 {
		head := queue[0]
		queue = queue[1:]
		if _, ok := seen[head]; ok {
			continue
		}
		seen[head] = struct{}{}
		out = append(out, head)
		queue = append(queue, children[head]...)
	}
	return out
}

// buildTree orders categories depth-first with siblings sorted by name.
func buildTree(all []models.Category) []Node {
	byID := make(map[uuid.UUID]models.Category, len(all))
	for _, c := range all {
		byID[c.ID] = c
	}
	children := map[uuid.UUID][]models.Category{}
	var roots []models.Category
	for _, c := range all {
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		if _, ok := byID[*c.ParentID]; !ok {
			roots = append(roots, c)
			continue
		}
		children[*c.ParentID] = append(children[*c.ParentID], c)
	}
	byName := func(list []models.Category) {
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].Name == list[j].Name {
				return list[i].ID.String() < list[j].ID.String()
			}
			return list[i].Name < list[j].Name
		})
	}

	nodes := make([]Node, 0, len(all))
	visited := map[uuid.UUID]struct{}{}
	var walk func(c models.Category, depth int)
	walk = func(c models.Category, depth int) {
		if _, ok := visited[c.ID]; ok {
			return
		}
		visited[c.ID] = struct{}{}
		nodes = append(nodes, Node{Category: c, Depth: depth})
		kids := children[c.ID]
		byName(kids)
		for _, kid := range kids {
			walk(kid, depth+1)
		}
	}
	byName(roots)
	for _, root := range roots {
		walk(root, 0)
	}
	return nodes
}
