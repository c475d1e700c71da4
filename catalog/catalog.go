// Copyright (C) 2022 MapD Technologies, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package catalog defines the metadata interface the analyzer
// consumes, along with an in-memory implementation used by tests and
// tools. The real catalog lives in the server; the analyzer only ever
// reads through this interface.
package catalog

import (
	"fmt"

	"github.com/lkire/mapd-core/sqltypes"
)

// TableDescriptor identifies a table.
type TableDescriptor struct {
	TableID int
	Name    string
}

// ColumnDescriptor carries the resolved metadata of one column.
// System columns are engine-maintained (rowid); virtual columns are
// computed and carry no storage.
type ColumnDescriptor struct {
	TableID   int
	ColumnID  int
	Name      string
	Type      sqltypes.TypeInfo
	IsSystem  bool
	IsVirtual bool
}

// Catalog is the read-only metadata source for semantic analysis.
// Implementations are internally synchronized.
type Catalog interface {
	// GetMetadataForTable resolves a table by name, or nil.
	GetMetadataForTable(name string) *TableDescriptor

	// GetAllColumnMetadataForTable lists the columns of a table in
	// column-id order, optionally including system and virtual columns.
	GetAllColumnMetadataForTable(tableID int, fetchSystem, fetchVirtual bool) []*ColumnDescriptor

	// GetMetadataForColumn resolves a column by name, or nil.
	GetMetadataForColumn(tableID int, name string) *ColumnDescriptor
}

// SystemRowIDName is the name of the engine-maintained row id column
// every table carries.
const SystemRowIDName = "$rowid"

// MemCatalog is an in-memory Catalog.
type MemCatalog struct {
	tables  map[string]*TableDescriptor
	columns map[int][]*ColumnDescriptor
	nextID  int
}

func NewMemCatalog() *MemCatalog {
	return &MemCatalog{
		tables:  make(map[string]*TableDescriptor),
		columns: make(map[int][]*ColumnDescriptor),
		nextID:  1,
	}
}

// Column describes one column when building a table.
type Column struct {
	Name    string
	Type    sqltypes.TypeInfo
	Virtual bool
}

// AddTable registers a table with the given user columns, assigning
// table and column ids. Every table gets the system row-id column.
func (c *MemCatalog) AddTable(name string, cols []Column) *TableDescriptor {
	td := &TableDescriptor{TableID: c.nextID, Name: name}
	c.nextID++
	c.tables[name] = td
	descs := make([]*ColumnDescriptor, 0, len(cols)+1)
	for i, col := range cols {
		descs = append(descs, &ColumnDescriptor{
			TableID:   td.TableID,
			ColumnID:  i + 1,
			Name:      col.Name,
			Type:      col.Type,
			IsVirtual: col.Virtual,
		})
	}
	rowid := sqltypes.Of(sqltypes.BigInt, true)
	descs = append(descs, &ColumnDescriptor{
		TableID:  td.TableID,
		ColumnID: len(cols) + 1,
		Name:     SystemRowIDName,
		Type:     rowid,
		IsSystem: true,
	})
	c.columns[td.TableID] = descs
	return td
}

func (c *MemCatalog) GetMetadataForTable(name string) *TableDescriptor {
	return c.tables[name]
}

func (c *MemCatalog) GetAllColumnMetadataForTable(tableID int, fetchSystem, fetchVirtual bool) []*ColumnDescriptor {
	var out []*ColumnDescriptor
	for _, cd := range c.columns[tableID] {
		if cd.IsSystem && !fetchSystem {
			continue
		}
		if cd.IsVirtual && !fetchVirtual {
			continue
		}
		out = append(out, cd)
	}
	return out
}

func (c *MemCatalog) GetMetadataForColumn(tableID int, name string) *ColumnDescriptor {
	for _, cd := range c.columns[tableID] {
		if cd.Name == name {
			return cd
		}
	}
	return nil
}

var _ Catalog = (*MemCatalog)(nil)

func (c *MemCatalog) String() string {
	return fmt.Sprintf("catalog(%d tables)", len(c.tables))
}
