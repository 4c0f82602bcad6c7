// Copyright 2023 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package block

import (
	"errors"
	"fmt"
)

// errBlockTooLarge is returned by [Parser.ParseReader] when a document
// read from an [io.Reader] exceeds [maxDocumentSize]. Grounded on the
// teacher's identical "line %d: block too large" guard in parse.go's
// readline, which exists for the same reason: an io.Reader source (unlike
// a string handed to [Parser.ParseDocument]) may be unbounded, so the
// streaming entry point needs its own cutoff.
var errBlockTooLarge = errors.New("block: document too large")

func blockTooLargeError(limit int) error {
	return fmt.Errorf("%w: exceeds %d bytes", errBlockTooLarge, limit)
}
