package router

// Radix tree derived from the go-radix work by Armon Dadgar
// (https://github.com/armon/go-radix, MIT licensed), reshaped into a
// compiled HTTP routing structure. The tree is populated once during
// Compile and is read-only afterwards, so lookups need no locking.

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/zen-rs/skyzen/core/handler"
)

type methodTyp uint

const (
	mCONNECT methodTyp = 1 << iota
	mDELETE
	mGET
	mHEAD
	mOPTIONS
	mPATCH
	mPOST
	mPUT
	mTRACE
)

var mALL = mCONNECT | mDELETE | mGET | mHEAD |
	mOPTIONS | mPATCH | mPOST | mPUT | mTRACE

var methodMap = map[string]methodTyp{
	http.MethodConnect: mCONNECT,
	http.MethodDelete:  mDELETE,
	http.MethodGet:     mGET,
	http.MethodHead:    mHEAD,
	http.MethodOptions: mOPTIONS,
	http.MethodPatch:   mPATCH,
	http.MethodPost:    mPOST,
	http.MethodPut:     mPUT,
	http.MethodTrace:   mTRACE,
}

var reverseMethodMap = map[methodTyp]string{
	mCONNECT: http.MethodConnect,
	mDELETE:  http.MethodDelete,
	mGET:     http.MethodGet,
	mHEAD:    http.MethodHead,
	mOPTIONS: http.MethodOptions,
	mPATCH:   http.MethodPatch,
	mPOST:    http.MethodPost,
	mPUT:     http.MethodPut,
	mTRACE:   http.MethodTrace,
}

// routeParams collects captured parameter values during a single lookup.
// Keys are taken from the matched endpoint's pattern, values from the path.
type routeParams struct {
	keys   []string
	values []string
}

type nodeTyp uint8

const (
	ntStatic   nodeTyp = iota // /home
	ntParam                   // /{user}
	ntCatchAll                // /files/*rest
)

type node[C handler.Context] struct {
	// endpoints registered on the leaf node, keyed by method
	endpoints endpoints[C]

	// prefix is the common prefix of this subtree
	prefix string

	// children are grouped by node type; the group order is the
	// matching precedence: static, then param, then catch-all.
	children [ntCatchAll + 1]nodes[C]

	// tail is the byte terminating a param segment, normally '/'
	tail byte

	typ nodeTyp

	// label is the first byte of the prefix
	label byte
}

// endpoints maps a method to the handler registered for it on a leaf.
type endpoints[C handler.Context] map[methodTyp]*endpoint[C]

type endpoint[C handler.Context] struct {
	handler   handler.HandlerFunc[C]
	pattern   string
	paramKeys []string
}

func (s endpoints[C]) value(method methodTyp) *endpoint[C] {
	mh, ok := s[method]
	if !ok {
		mh = &endpoint[C]{}
		s[method] = mh
	}
	return mh
}

func (n *node[C]) insertRoute(method methodTyp, pattern string, h handler.HandlerFunc[C]) *node[C] {
	var parent *node[C]
	search := pattern

	for {
		// Key exhausted: this node is the leaf for the pattern.
		if len(search) == 0 {
			n.setEndpoint(method, h, pattern)
			return n
		}

		label := search[0]
		var segTail byte
		var segEndIdx int
		var segTyp nodeTyp
		if label == '{' || label == '*' {
			segTyp, _, segTail, _, segEndIdx = patNextSegment(search)
		}

		parent = n
		n = parent.getEdge(segTyp, label, segTail)

		// No matching edge, create one holding the rest of the pattern.
		if n == nil {
			child := &node[C]{label: label, tail: segTail, prefix: search}
			hn := parent.addChild(child, search)
			hn.setEndpoint(method, h, pattern)
			return hn
		}

		if n.typ > ntStatic {
			// Param or wildcard edge already on the tree from a previous
			// registration; consume the segment and keep walking.
			search = search[segEndIdx:]
			continue
		}

		// Static node: walk or split on the longest common prefix.
		commonPrefix := longestPrefix(search, n.prefix)
		if commonPrefix == len(n.prefix) {
			search = search[commonPrefix:]
			continue
		}

		// Split the node
		child := &node[C]{
			typ:    ntStatic,
			prefix: search[:commonPrefix],
		}
		parent.replaceChild(search[0], segTail, child)

		// Restore the existing node
		n.label = n.prefix[commonPrefix]
		n.prefix = n.prefix[commonPrefix:]
		child.addChild(n, n.prefix)

		// If the new key is a subset, set the handler on the split node.
		search = search[commonPrefix:]
		if len(search) == 0 {
			child.setEndpoint(method, h, pattern)
			return child
		}

		// Create a new edge for the remainder of the new key.
		subchild := &node[C]{
			typ:    ntStatic,
			label:  search[0],
			prefix: search,
		}
		hn := child.addChild(subchild, search)
		hn.setEndpoint(method, h, pattern)
		return hn
	}
}

// addChild appends the new `child` node to the tree using the `prefix` as the trie key.
func (n *node[C]) addChild(child *node[C], prefix string) *node[C] {
	search := prefix

	// The leaf node added to the tree; may be replaced below when the
	// prefix mixes static and dynamic segments.
	hn := child

	segTyp, _, segTail, segStartIdx, segEndIdx := patNextSegment(search)

	switch {
	case segTyp == ntStatic:
		// fully static prefix, nothing to split

	case segStartIdx == 0:
		// prefix starts with a param or wildcard
		child.typ = segTyp

		if segTyp == ntCatchAll {
			segStartIdx = len(search)
		} else {
			segStartIdx = segEndIdx
		}
		child.tail = segTail

		if segStartIdx != len(search) {
			// Static remainder after the param segment; adjacent params are
			// impossible, so the next edge is certainly static.
			search = search[segStartIdx:]

			nn := &node[C]{
				typ:    ntStatic,
				label:  search[0],
				prefix: search,
			}
			hn = child.addChild(nn, search)
		}

	default:
		// prefix starts static and contains a later param segment
		child.typ = ntStatic
		child.prefix = search[:segStartIdx]

		search = search[segStartIdx:]
		nn := &node[C]{
			typ:   segTyp,
			label: search[0],
			tail:  segTail,
		}
		hn = child.addChild(nn, search)
	}

	n.children[child.typ] = append(n.children[child.typ], child)
	n.children[child.typ].sort()
	return hn
}

func (n *node[C]) replaceChild(label, tail byte, child *node[C]) {
	for i := range n.children[child.typ] {
		if n.children[child.typ][i].label == label && n.children[child.typ][i].tail == tail {
			n.children[child.typ][i] = child
			n.children[child.typ][i].label = label
			n.children[child.typ][i].tail = tail
			return
		}
	}
	panic(fmt.Errorf("router: replacing missing child node '%c'", label))
}

func (n *node[C]) getEdge(ntyp nodeTyp, label, tail byte) *node[C] {
	nds := n.children[ntyp]
	for i := range nds {
		if nds[i].label == label && nds[i].tail == tail {
			return nds[i]
		}
	}
	return nil
}

func (n *node[C]) setEndpoint(method methodTyp, h handler.HandlerFunc[C], pattern string) {
	if n.endpoints == nil {
		n.endpoints = make(endpoints[C])
	}

	paramKeys := patParamKeys(pattern)

	if method&mALL == mALL {
		for _, m := range methodMap {
			e := n.endpoints.value(m)
			e.handler = h
			e.pattern = pattern
			e.paramKeys = paramKeys
		}
		return
	}

	for _, m := range methodMap {
		if method&m == 0 {
			continue
		}
		e := n.endpoints.value(m)
		e.handler = h
		e.pattern = pattern
		e.paramKeys = paramKeys
	}
}

// findRoute matches a path against the compiled tree. It returns the leaf
// node (nil when nothing matched), the endpoints registered on that leaf
// (for Allow header construction), the handler for the method (nil when the
// path matched but the method did not), and the captured params.
func (n *node[C]) findRoute(method methodTyp, path string) (*node[C], endpoints[C], handler.HandlerFunc[C], routeParams) {
	rctx := &routeParams{}

	rn := n.findRouteRecursive(method, path, rctx)
	if rn == nil {
		return nil, nil, nil, *rctx
	}

	if rn.endpoints[method] != nil && rn.endpoints[method].handler != nil {
		return rn, rn.endpoints, rn.endpoints[method].handler, *rctx
	}

	return rn, rn.endpoints, nil, *rctx
}

// Recursive edge traversal, trying child groups in precedence order.
func (n *node[C]) findRouteRecursive(method methodTyp, path string, rctx *routeParams) *node[C] {
	nn := n
	search := path

	for t, nds := range nn.children {
		ntyp := nodeTyp(t)
		if len(nds) == 0 {
			continue
		}

		var xn *node[C]
		xsearch := search

		var label byte
		if search != "" {
			label = search[0]
		}

		switch ntyp {
		case ntStatic:
			xn = nds.findEdge(label)
			if xn == nil || !strings.HasPrefix(xsearch, xn.prefix) {
				continue
			}
			xsearch = xsearch[len(xn.prefix):]

		case ntParam:
			// a param never matches the empty segment
			if xsearch == "" {
				continue
			}

			// try each param node grouped by its tail delimiter
			for idx := range nds {
				xn = nds[idx]

				p := strings.IndexByte(xsearch, xn.tail)
				if p < 0 {
					if xn.tail == '/' {
						p = len(xsearch)
					} else {
						continue
					}
				}

				if strings.IndexByte(xsearch[:p], '/') != -1 {
					// a param must not span path segments
					continue
				}

				prevlen := len(rctx.values)
				rctx.values = append(rctx.values, xsearch[:p])
				xsearch = xsearch[p:]

				if len(xsearch) == 0 && xn.isLeaf() {
					e := xn.endpoints[method]
					if e != nil && e.handler != nil {
						rctx.keys = append(rctx.keys, e.paramKeys...)
						return xn
					}

					// the path matched but no handler exists for the
					// method; surface the leaf for 405 handling
					return xn
				}

				// descend this branch
				fin := xn.findRouteRecursive(method, xsearch, rctx)
				if fin != nil {
					return fin
				}

				// no luck down this branch, unwind the captured value
				rctx.values = rctx.values[:prevlen]
				xsearch = search
			}

			continue

		default:
			// catch-all: swallow whatever remains of the path
			rctx.values = append(rctx.values, search)
			xn = nds[0]
			xsearch = ""
		}

		if xn == nil {
			continue
		}

		if len(xsearch) == 0 && xn.isLeaf() {
			e := xn.endpoints[method]
			if e != nil && e.handler != nil {
				rctx.keys = append(rctx.keys, e.paramKeys...)
				return xn
			}
			return xn
		}

		fin := xn.findRouteRecursive(method, xsearch, rctx)
		if fin != nil {
			return fin
		}

		// backtrack the catch-all capture if it did not resolve
		if xn.typ > ntStatic && len(rctx.values) > 0 {
			rctx.values = rctx.values[:len(rctx.values)-1]
		}
	}

	return nil
}

func (n *node[C]) isLeaf() bool {
	return n.endpoints != nil
}

// patNextSegment scans a pattern for the next dynamic segment and returns:
// node type, param key, param tail byte, segment start index, segment end index.
// A fully static pattern returns (ntStatic, "", 0, 0, len).
func patNextSegment(pattern string) (nodeTyp, string, byte, int, int) {
	ps := strings.Index(pattern, "{")
	ws := strings.Index(pattern, "*")

	if ps < 0 && ws < 0 {
		return ntStatic, "", 0, 0, len(pattern)
	}

	// Sanity check
	if ps >= 0 && ws >= 0 && ws < ps {
		panic(fmt.Errorf("%w: '%s'", ErrWildcardPosition, pattern))
	}

	var tail byte = '/' // default param terminator

	if ps >= 0 {
		// Param segment is next. Scan to the matching close brace.
		pe := strings.IndexByte(pattern[ps:], '}')
		if pe < 0 {
			panic(fmt.Errorf("%w: '%s'", ErrParamDelimiter, pattern))
		}
		pe += ps

		key := pattern[ps+1 : pe]
		if key == "" {
			panic(fmt.Errorf("%w: '%s'", ErrEmptyParam, pattern))
		}

		pe++ // position after '}'
		if pe < len(pattern) {
			tail = pattern[pe]
		}

		return ntParam, key, tail, ps, pe
	}

	// Wildcard must be the final segment; anything after '*' is its name.
	name := pattern[ws+1:]
	if strings.ContainsAny(name, "/{}*") {
		panic(fmt.Errorf("%w: '%s'", ErrWildcardPosition, pattern))
	}
	if name == "" {
		name = "*"
	}
	return ntCatchAll, name, 0, ws, len(pattern)
}

// patParamKeys extracts the ordered param keys (including a trailing
// wildcard name) from a pattern, panicking on duplicates.
func patParamKeys(pattern string) []string {
	pat := pattern
	var paramKeys []string
	for {
		ptyp, paramKey, _, _, e := patNextSegment(pat)
		if ptyp == ntStatic {
			return paramKeys
		}
		for i := range paramKeys {
			if paramKeys[i] == paramKey {
				panic(fmt.Errorf("%w: '%s' has duplicate key '%s'", ErrDuplicateParam, pattern, paramKey))
			}
		}
		paramKeys = append(paramKeys, paramKey)
		pat = pat[e:]
	}
}

// patShape normalizes a pattern to its precedence shape: every param
// collapses to "{}" and a wildcard to "*". Two routes with the same shape
// and overlapping methods are indistinguishable to the matcher and are
// rejected during Compile.
func patShape(pattern string) string {
	var b strings.Builder
	pat := pattern
	for {
		ptyp, _, _, s, e := patNextSegment(pat)
		if ptyp == ntStatic {
			b.WriteString(pat)
			return b.String()
		}
		b.WriteString(pat[:s])
		if ptyp == ntCatchAll {
			b.WriteByte('*')
			return b.String()
		}
		b.WriteString("{}")
		pat = pat[e:]
	}
}

// longestPrefix finds the length of the shared prefix of two strings.
func longestPrefix(k1, k2 string) int {
	max := len(k1)
	if l := len(k2); l < max {
		max = l
	}
	var i int
	for i = 0; i < max; i++ {
		if k1[i] != k2[i] {
			break
		}
	}
	return i
}

type nodes[C handler.Context] []*node[C]

// sort the list of nodes by label
func (ns nodes[C]) sort()              { sort.Sort(ns); ns.tailSort() }
func (ns nodes[C]) Len() int           { return len(ns) }
func (ns nodes[C]) Swap(i, j int)      { ns[i], ns[j] = ns[j], ns[i] }
func (ns nodes[C]) Less(i, j int) bool { return ns[i].label < ns[j].label }

// tailSort pushes param nodes with '/' as the tail to the end of the list.
// The list order determines the traversal order.
func (ns nodes[C]) tailSort() {
	for i := len(ns) - 1; i >= 0; i-- {
		if ns[i].typ > ntStatic && ns[i].tail == '/' {
			ns.Swap(i, len(ns)-1)
			return
		}
	}
}

func (ns nodes[C]) findEdge(label byte) *node[C] {
	num := len(ns)
	idx := 0
	i, j := 0, num-1
	for i <= j {
		idx = i + (j-i)/2
		if label > ns[idx].label {
			i = idx + 1
		} else if label < ns[idx].label {
			j = idx - 1
		} else {
			i = num // breaks cond
		}
	}
	if ns[idx].label != label {
		return nil
	}
	return ns[idx]
}
