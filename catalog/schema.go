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

package catalog

import (
	"fmt"

	"sigs.k8s.io/yaml"

	"github.com/lkire/mapd-core/sqltypes"
)

// schemaFile is the YAML shape accepted by LoadSchema.
type schemaFile struct {
	Tables []schemaTable `json:"tables"`
}

type schemaTable struct {
	Name    string         `json:"name"`
	Columns []schemaColumn `json:"columns"`
}

type schemaColumn struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Dimension int    `json:"dimension"`
	Scale     int    `json:"scale"`
	NotNull   bool   `json:"notnull"`
	Encoding  string `json:"encoding"`
	Dict      int    `json:"dict"`
	Virtual   bool   `json:"virtual"`
}

// LoadSchema builds a MemCatalog from a YAML table definition, the
// same shape the test fixtures use:
//
//	tables:
//	  - name: t1
//	    columns:
//	      - {name: a, type: INT, notnull: true}
//	      - {name: s, type: VARCHAR, dimension: 20, encoding: DICT, dict: 3}
func LoadSchema(data []byte) (*MemCatalog, error) {
	var sf schemaFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("catalog: parsing schema: %w", err)
	}
	cat := NewMemCatalog()
	for _, t := range sf.Tables {
		cols := make([]Column, 0, len(t.Columns))
		for _, sc := range t.Columns {
			kind, ok := sqltypes.KindOf(sc.Type)
			if !ok {
				return nil, fmt.Errorf("catalog: table %s column %s: unknown type %q", t.Name, sc.Name, sc.Type)
			}
			enc := sqltypes.EncodingNone
			switch sc.Encoding {
			case "", "NONE":
			case "DICT":
				enc = sqltypes.EncodingDict
			default:
				return nil, fmt.Errorf("catalog: table %s column %s: unknown encoding %q", t.Name, sc.Name, sc.Encoding)
			}
			cols = append(cols, Column{
				Name:    sc.Name,
				Type:    sqltypes.Make(kind, sc.Dimension, sc.Scale, sc.NotNull, enc, sc.Dict),
				Virtual: sc.Virtual,
			})
		}
		cat.AddTable(t.Name, cols)
	}
	return cat, nil
}
