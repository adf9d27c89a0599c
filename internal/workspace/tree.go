package workspace

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
)

type EnvTreeNode struct {
	Name     string
	Children []*EnvTreeNode
	File     string // Empty if directory, contains relative path if file
}

func BuildEnvTree(paths []string) *EnvTreeNode {
	root := &EnvTreeNode{Name: "."}

	for _, p := range paths {
		parts := strings.Split(filepath.ToSlash(p), "/")
		cur := root
		for _, dir := range parts[:len(parts)-1] {
			cur = cur.child(dir)
		}
		cur.Children = append(cur.Children, &EnvTreeNode{Name: parts[len(parts)-1], File: p})
	}

	SortEnvTree(root)
	return root
}

func (n *EnvTreeNode) child(name string) *EnvTreeNode {
	for _, ch := range n.Children {
		if ch.Name == name && ch.File == "" {
			return ch
		}
	}
	next := &EnvTreeNode{Name: name}
	n.Children = append(n.Children, next)
	return next
}

// SortEnvTree orders files before directories, each alphabetically.
func SortEnvTree(node *EnvTreeNode) {
	sort.Slice(node.Children, func(i, j int) bool {
		ci, cj := node.Children[i], node.Children[j]
		fileI := ci.File != ""
		fileJ := cj.File != ""
		if fileI != fileJ {
			return fileI
		}
		return ci.Name < cj.Name
	})

	for _, ch := range node.Children {
		SortEnvTree(ch)
	}
}

// PrintEnvTree writes node as an indented tree. label, when set, renders
// the name of file nodes (e.g. to append a status).
func PrintEnvTree(w io.Writer, node *EnvTreeNode, prefix string, last bool, label func(*EnvTreeNode) string) {
	if node.Name != "." {
		conn := "├─ "
		if last {
			conn = "└─ "
		}
		name := node.Name
		if node.File != "" && label != nil {
			name = label(node)
		}
		fmt.Fprintln(w, prefix+conn+name)
	}

	childPrefix := prefix
	if node.Name != "." {
		if last {
			childPrefix += "   "
		} else {
			childPrefix += "│  "
		}
	}

	for i, ch := range node.Children {
		PrintEnvTree(w, ch, childPrefix, i == len(node.Children)-1, label)
	}
}
