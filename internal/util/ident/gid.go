// Copyright 2023 The Cockroach Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package ident

import "github.com/google/uuid"

// Gid is an opaque generation id stamped onto a catalog entry when it
// is registered. It lets a long-lived handle detect that the name it
// was resolved against has since been torn down and re-created, rather
// than silently addressing the new generation's state.
type Gid struct {
	id uuid.UUID
}

// NewGid allocates a fresh generation id.
func NewGid() Gid {
	return Gid{id: uuid.New()}
}

// Equal reports whether two Gids were allocated from the same call to
// NewGid.
func (g Gid) Equal(o Gid) bool {
	return g.id == o.id
}

// String renders the id for logging and introspection.
func (g Gid) String() string {
	return g.id.String()
}
