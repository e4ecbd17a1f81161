// Package ifc is an in-memory IFC4 document with schedule authoring operations
// and an ISO 10303-21 (STEP) serializer.
package ifc

import (
	"github.com/ifcp6/msp2ifc/internal/domain"
)

// SchemaName is the IFC schema identifier written to FILE_SCHEMA.
const SchemaName = "IFC4"

// Document is an ordered store of IFC entity instances.
type Document struct {
	header   domain.ModelHeader
	byID     map[int]Entity
	guids    *guidSource
	entities []Entity
}

// NewDocument returns an empty document.
func NewDocument(header domain.ModelHeader) *Document {
	return &Document{
		header: header,
		byID:   make(map[int]Entity),
		guids:  newGUIDSource(header.Seed),
	}
}

// Add assigns the next instance id to e and stores it.
func (d *Document) Add(e Entity) Entity {
	id := len(d.entities) + 1
	e.setID(id)
	d.entities = append(d.entities, e)
	d.byID[id] = e
	return e
}

// NewGlobalID returns the next GlobalId for a rooted entity.
func (d *Document) NewGlobalID() string {
	return d.guids.next()
}

// ByID returns the entity with the given instance id.
func (d *Document) ByID(id int) (Entity, bool) {
	e, ok := d.byID[id]
	return e, ok
}

// ByType returns all entities of the given IFC type, in id order.
func (d *Document) ByType(ifcType string) []Entity {
	var out []Entity
	for _, e := range d.entities {
		if e.Type() == ifcType {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of entities.
func (d *Document) Len() int {
	return len(d.entities)
}

// Stats counts entities by type.
func (d *Document) Stats() domain.ModelStats {
	stats := make(domain.ModelStats)
	for _, e := range d.entities {
		stats[e.Type()]++
	}
	return stats
}
