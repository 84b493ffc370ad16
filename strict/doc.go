// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package strict provides collections which treat duplicate adds and
// missing removes as caller errors instead of silent no-ops.
//
// Every strict operation has a weak counterpart which never fails and instead
// reports whether it changed the collection:
//
//	l := strict.NewList[string]()
//	err := l.Add("a")   // nil
//	err = l.Add("a")    // DuplicateElementError
//	ok := l.AddWeak("a") // false
//
// A failed strict operation never partially mutates the collection.
//
// None of the collections are safe for concurrent mutation.
package strict
