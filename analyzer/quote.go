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

package analyzer

import (
	"strconv"
	"strings"
)

// Quote renders s as a SQL single-quoted string literal. Embedded
// quotes are doubled per the SQL convention; control characters and
// other unprintable runes fall back to Go-style escapes so the output
// stays one line.
func Quote(s string) string {
	var dst strings.Builder
	quote(&dst, s)
	return dst.String()
}

func quote(dst *strings.Builder, s string) {
	dst.WriteByte('\'')
	for _, r := range s {
		switch {
		case r == '\'':
			dst.WriteString("''")
		case strconv.IsPrint(r):
			dst.WriteRune(r)
		default:
			q := strconv.QuoteRuneToASCII(r)
			dst.WriteString(q[1 : len(q)-1]) // strip the surrounding Go quotes
		}
	}
	dst.WriteByte('\'')
}
