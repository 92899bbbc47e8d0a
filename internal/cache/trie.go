// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package cache

import (
	"sort"
	"strings"
)

type trieNode struct {
	children map[rune]*trieNode
	rank     int // insertion position, -1 if no word ends here
	value    string
}

func newTrieNode() *trieNode {
	return &trieNode{children: make(map[rune]*trieNode), rank: -1}
}

// TitleTrie is a case-insensitive prefix tree over titles. It is not safe
// for concurrent Insert; build it fully before sharing it.
type TitleTrie struct {
	root *trieNode
	size int
}

// NewTitleTrie indexes titles in order. Duplicates keep their first position.
func NewTitleTrie(titles []string) *TitleTrie {
	t := &TitleTrie{root: newTrieNode()}
	for _, title := range titles {
		t.Insert(title)
	}
	return t
}

// Insert adds title and reports whether it was new.
func (t *TitleTrie) Insert(title string) bool {
	if title == "" {
		return false
	}
	key := strings.ToLower(title)
	node := t.root
	for _, ch := range key {
		child, ok := node.children[ch]
		if !ok {
			child = newTrieNode()
			node.children[ch] = child
		}
		node = child
	}
	if node.rank >= 0 {
		return false
	}
	node.rank = t.size
	node.value = key
	t.size++
	return true
}

// Complete returns up to limit titles starting with prefix, in insertion
// order. A non-positive limit returns every match.
func (t *TitleTrie) Complete(prefix string, limit int) []string {
	node := t.root
	for _, ch := range strings.ToLower(prefix) {
		next, ok := node.children[ch]
		if !ok {
			return []string{}
		}
		node = next
	}

	var found []*trieNode
	collect(node, &found)
	sort.Slice(found, func(i, j int) bool { return found[i].rank < found[j].rank })

	if limit > 0 && len(found) > limit {
		found = found[:limit]
	}
	out := make([]string, len(found))
	for i, n := range found {
		out[i] = n.value
	}
	return out
}

// Contains reports whether title was inserted.
func (t *TitleTrie) Contains(title string) bool {
	node := t.root
	for _, ch := range strings.ToLower(title) {
		next, ok := node.children[ch]
		if !ok {
			return false
		}
		node = next
	}
	return node.rank >= 0
}

// Len returns the number of distinct titles.
func (t *TitleTrie) Len() int {
	return t.size
}

func collect(node *trieNode, out *[]*trieNode) {
	if node.rank >= 0 {
		*out = append(*out, node)
	}
	for _, child := range node.children {
		collect(child, out)
	}
}
