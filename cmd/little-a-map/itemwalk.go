// SPDX-License-Identifier: MIT

package main

// itemwalk implements the recursive-container item search described in
// spec §4.2 and the design note in §9: items are a recursive sum type (an
// item may itself contain a list of items, to arbitrary depth), modeled
// here as a generic walk over every Compound reachable from a root tag,
// using an explicit stack rather than native recursion. Because the walk
// visits every compound regardless of which key it hung off, it finds
// filled maps inside block entities, entities, player inventories, ender
// chests, and any nesting of shulker boxes / bundles / 1.20.5+ container
// components without needing a separate code path per container shape or
// per save-format version.

const filledMapID = "minecraft:filled_map"

// ExtractMapIDs walks root and returns every minecraft:filled_map item's
// map ID found anywhere within it, in the order first encountered.
func ExtractMapIDs(root Tag) []MapId {
	var ids []MapId
	walkCompounds(root, func(item Compound) {
		if id, ok := mapIDOfItem(item); ok {
			ids = append(ids, id)
		}
	})
	return ids
}

// walkCompounds visits every Compound reachable from root (including root
// itself), via an explicit work stack.
func walkCompounds(root Tag, visit func(Compound)) {
	stack := []Tag{root}
	for len(stack) > 0 {
		n := len(stack) - 1
		tag := stack[n]
		stack = stack[:n]

		switch t := tag.(type) {
		case Compound:
			visit(t)
			for _, v := range t {
				stack = append(stack, v)
			}
		case List:
			for _, v := range t.Items {
				stack = append(stack, v)
			}
		}
	}
}

// mapIDOfItem reports whether item is a minecraft:filled_map item stack,
// and its decoded map ID.
func mapIDOfItem(item Compound) (MapId, bool) {
	id, ok := item.String("id")
	if !ok || id != filledMapID {
		return 0, false
	}

	// 1.20.5+: components."minecraft:map_id" is an Int tag.
	if components, ok := item.Compound("components"); ok {
		if v, ok := components.Int64("minecraft:map_id"); ok {
			return MapId(uint32(v)), true
		}
	}

	// Legacy: tag.map is an Int (or Short, in very old saves).
	if tag, ok := item.Compound("tag"); ok {
		if v, ok := tag.Int64("map"); ok {
			return MapId(uint32(v)), true
		}
	}

	return 0, false
}
