// SPDX-License-Identifier: MPL-2.0

// Package selector finds the JSON documents to validate.
//
// Item documents live at items/<Kind>/<id>.img/img.json, where <id> is a
// decimal number. SelectItems returns exactly those paths for one kind; Glob
// serves the free-form fileMatch patterns of workspace schema associations.
// Both work on an fs.FS and return paths relative to it, in lexical walk order.
package selector
