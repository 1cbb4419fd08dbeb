package savedoc

import (
	"sort"
)

// Kind is the JSON kind a named container must have
type Kind int

// Container kinds
const (
	KindArray Kind = iota
	KindObject
)

// Named containers the editor touches
const (
	ItemContainers        = "SaveLoadItemDataContainers"
	WeaponDetails         = "SaveLoadWeaponDataDetails"
	AbilityDetails        = "SaveLoadAbilityItemDataDetails"
	UnlockedItems         = "Progression.Category.Unlocked.Items"
	ResearchedProjects    = "SaveLoadResearchedProjects"
	Quests                = "SaveLoadQuests"
	unlockedItemsInnerKey = "map"
)

// ContainerSpec says where a named container normally lives and what it
// holds. Inner names a child object the caller actually wants, as with the
// unlocked-items wrapper whose integers sit under "map".
type ContainerSpec struct {
	Name          string
	Kind          Kind
	CanonicalPath []string
	Inner         string
}

var containerSpecs = map[string]ContainerSpec{
	ItemContainers: {
		Name:          ItemContainers,
		Kind:          KindArray,
		CanonicalPath: []string{"PlayerController", "ItemStorage"},
	},
	WeaponDetails: {
		Name:          WeaponDetails,
		Kind:          KindArray,
		CanonicalPath: []string{"PlayerController", "ItemStorage"},
	},
	AbilityDetails: {
		Name:          AbilityDetails,
		Kind:          KindArray,
		CanonicalPath: []string{"PlayerController", "ItemStorage"},
	},
	UnlockedItems: {
		Name:          UnlockedItems,
		Kind:          KindObject,
		CanonicalPath: []string{"Save", "GameInstance", "ProgressManager", "IntegerMaps"},
		Inner:         unlockedItemsInnerKey,
	},
	ResearchedProjects: {
		Name:          ResearchedProjects,
		Kind:          KindObject,
		CanonicalPath: []string{"Save", "Subsystems", "Research"},
	},
	Quests: {
		Name:          Quests,
		Kind:          KindArray,
		CanonicalPath: []string{"Save", "Subsystems", "Quest"},
	},
}

// SpecFor returns the placement rules of a named container
func SpecFor(name string) (ContainerSpec, bool) {
	spec, ok := containerSpecs[name]
	return spec, ok
}

// Array is a reference to an array stored under an object key. Writes go
// back through the owning object, so they are visible in the document.
// Readers are safe on a nil *Array.
type Array struct {
	owner map[string]any
	key   string
}

// Items returns the current elements
func (a *Array) Items() []any {
	if a == nil {
		return nil
	}
	items, _ := a.owner[a.key].([]any)
	return items
}

// Len returns the number of elements
func (a *Array) Len() int {
	return len(a.Items())
}

// Append adds elements to the end
func (a *Array) Append(items ...any) {
	a.owner[a.key] = append(a.Items(), items...)
}

// Filter rebuilds the array with only the elements keep accepts and returns
// how many were dropped
func (a *Array) Filter(keep func(item any) bool) int {
	items := a.Items()
	kept := make([]any, 0, len(items))
	for _, it := range items {
		if keep(it) {
			kept = append(kept, it)
		}
	}
	a.owner[a.key] = kept
	return len(items) - len(kept)
}

// Records returns the elements that are JSON objects
func (a *Array) Records() []map[string]any {
	items := a.Items()
	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		if rec, ok := it.(map[string]any); ok {
			out = append(out, rec)
		}
	}
	return out
}

// Object is a reference to a JSON object inside the document
type Object struct {
	m map[string]any
}

// Map exposes the underlying object
func (o *Object) Map() map[string]any {
	if o == nil {
		return nil
	}
	return o.m
}

// Get returns a member
func (o *Object) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.m[key]
	return v, ok
}

// Int returns a member as an integer
func (o *Object) Int(key string) (int64, bool) {
	v, ok := o.Get(key)
	if !ok {
		return 0, false
	}
	return Int(v)
}

// Set stores a member
func (o *Object) Set(key string, v any) {
	o.m[key] = v
}

// Delete removes a member and reports whether it existed
func (o *Object) Delete(key string) bool {
	_, ok := o.m[key]
	delete(o.m, key)
	return ok
}

// Keys returns member names in lexical order
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, 0, len(o.m))
	for k := range o.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of members
func (o *Object) Len() int {
	return len(o.Map())
}

// Containers holds the references returned by Locate
type Containers struct {
	arrays  map[string]*Array
	objects map[string]*Object
	created []string
}

// Array returns a located array, or nil if it was not requested or not found
func (c *Containers) Array(name string) *Array {
	return c.arrays[name]
}

// Object returns a located object, or nil if it was not requested or not found
func (c *Containers) Object(name string) *Object {
	return c.objects[name]
}

// Created lists the containers that had to be created at their canonical
// path because the document did not have them
func (c *Containers) Created() []string {
	return c.created
}

// Locate finds the named containers anywhere in the document with a single
// depth-first search and returns references to them. A container that
// appears nowhere, or only with the wrong JSON kind, is created empty at its
// canonical path. Unknown names are ignored.
func (d *Document) Locate(names ...string) *Containers {
	return d.locate(names, true)
}

// Lookup is Locate without the fallback: containers the document lacks are
// reported as nil and the document is left untouched.
func (d *Document) Lookup(names ...string) *Containers {
	return d.locate(names, false)
}

func (d *Document) locate(names []string, create bool) *Containers {
	out := &Containers{
		arrays:  make(map[string]*Array),
		objects: make(map[string]*Object),
	}

	matchers := make([]Matcher, 0, len(names))
	for _, name := range names {
		spec, ok := containerSpecs[name]
		if !ok {
			continue
		}
		matchers = append(matchers, Matcher{Name: name, Match: specMatcher(spec)})
	}

	found := Find(d.root, matchers...)

	for _, m := range matchers {
		spec := containerSpecs[m.Name]
		var owner map[string]any
		if hit, ok := found[m.Name]; ok {
			owner = hit.Parent
		} else if create {
			owner = ensurePath(d.root, spec.CanonicalPath)
			owner[spec.Name] = emptyOf(spec.Kind)
			out.created = append(out.created, spec.Name)
		} else {
			continue
		}

		switch spec.Kind {
		case KindArray:
			out.arrays[spec.Name] = &Array{owner: owner, key: spec.Name}
		case KindObject:
			obj := owner[spec.Name].(map[string]any)
			if spec.Inner != "" {
				inner, ok := obj[spec.Inner].(map[string]any)
				if !ok {
					if !create {
						continue
					}
					inner = map[string]any{}
					obj[spec.Inner] = inner
				}
				obj = inner
			}
			out.objects[spec.Name] = &Object{m: obj}
		}
	}

	return out
}

func specMatcher(spec ContainerSpec) func(v Visit) bool {
	return func(v Visit) bool {
		if v.Parent == nil || v.Key != spec.Name {
			return false
		}
		switch spec.Kind {
		case KindArray:
			_, ok := v.Value.([]any)
			return ok
		case KindObject:
			_, ok := v.Value.(map[string]any)
			return ok
		}
		return false
	}
}

// ensurePath walks path from root creating objects as needed. A member on
// the path that is not an object is replaced.
func ensurePath(root map[string]any, path []string) map[string]any {
	cur := root
	for _, key := range path {
		next, ok := cur[key].(map[string]any)
		if !ok {
			next = map[string]any{}
			cur[key] = next
		}
		cur = next
	}
	return cur
}

func emptyOf(kind Kind) any {
	if kind == KindArray {
		return []any{}
	}
	return map[string]any{}
}
