package lax

import "strings"

// NodeList and ElementList are flat, read-only views borrowed from an
// existing tree. Query results point into the tree they were built
// from, never into copies.
type NodeList []Node

type ElementList []*Element

func nth[T any](list []T, index int) T {
	var zero T
	if index < 0 || index >= len(list) {
		return zero
	}
	return list[index]
}

func only[T any](list []T) T {
	var zero T
	if len(list) != 1 {
		return zero
	}
	return list[0]
}

func (list NodeList) First() Node {
	return nth(list, 0)
}

func (list NodeList) Last() Node {
	return nth(list, len(list)-1)
}

func (list NodeList) At(index int) Node {
	return nth(list, index)
}

// Only returns the single member of the list, or nil when the list does
// not have exactly one.
func (list NodeList) Only() Node {
	return only(list)
}

// ByName collects elements whose name matches, case-insensitively, in
// depth-first pre-order. A matching element is reported once and its own
// subtree is not searched further.
func (list NodeList) ByName(name string) ElementList {
	var res ElementList
	for _, n := range list {
		if el, ok := n.(*Element); ok {
			res = append(res, findByName(el, name)...)
		}
	}
	return res
}

func (list ElementList) First() *Element {
	return nth(list, 0)
}

func (list ElementList) Last() *Element {
	return nth(list, len(list)-1)
}

func (list ElementList) At(index int) *Element {
	return nth(list, index)
}

func (list ElementList) Only() *Element {
	return only(list)
}

func (list ElementList) ByName(name string) ElementList {
	var res ElementList
	for _, el := range list {
		res = append(res, findByName(el, name)...)
	}
	return res
}

func findByName(el *Element, name string) ElementList {
	if strings.EqualFold(el.Name, name) {
		return ElementList{el}
	}
	var res ElementList
	for _, n := range el.Nodes {
		if child, ok := n.(*Element); ok {
			res = append(res, findByName(child, name)...)
		}
	}
	return res
}
