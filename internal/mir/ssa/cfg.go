/*
 * Copyright 2025 The jsavrs Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package ssa

import (
    `github.com/oleiade/lane`
)

// CFG is one function's control flow graph. Root is the entry block;
// every other block is reachable from it through terminator edges.
// Analyses borrow the graph read-only, Rebuild is the only mutator.
type CFG struct {
    Root  *BasicBlock
    Depth map[int]int
}

// Rebuild recomputes the predecessor lists and the block depths from
// the terminator edges. Parallel edges into the same block (e.g. two
// switch cases sharing a target) collapse into a single predecessor
// entry so that join point detection stays accurate.
func (self *CFG) Rebuild() {
    if self.Root == nil {
        return
    }

    /* all the reachable blocks */
    bb := self.Blocks()
    edge := make(map[[2]int]bool)

    /* reset the predecessors */
    for _, p := range bb {
        p.Pred = nil
    }

    /* add the deduplicated edges */
    for _, p := range bb {
        for it := p.Term.Successors(); it.Next(); {
            w := it.Block()
            e := [2]int { p.Id, w.Id }

            /* this is a new edge */
            if !edge[e] {
                edge[e] = true
                w.Pred = append(w.Pred, p)
            }
        }
    }

    /* assign depths, BFS from the entry */
    q := lane.NewQueue()
    self.Depth = map[int]int { self.Root.Id: 0 }

    /* breadth-first scan */
    for q.Enqueue(self.Root); !q.Empty(); {
        p := q.Dequeue().(*BasicBlock)
        d := self.Depth[p.Id]

        /* add unvisited successors */
        for it := p.Term.Successors(); it.Next(); {
            w := it.Block()
            if _, ok := self.Depth[w.Id]; !ok {
                self.Depth[w.Id] = d + 1
                q.Enqueue(w)
            }
        }
    }
}

// MaxBlock returns the largest block ID reachable from the entry.
func (self *CFG) MaxBlock() int {
    ret := 0
    self.PostOrder(func(bb *BasicBlock) {
        if bb.Id > ret {
            ret = bb.Id
        }
    })
    return ret
}

// Blocks returns every reachable block in reverse post-order.
func (self *CFG) Blocks() []*BasicBlock {
    var ret []*BasicBlock
    self.ReversePostOrder(func(bb *BasicBlock) { ret = append(ret, bb) })
    return ret
}

func (self *CFG) PostOrder(action func(bb *BasicBlock)) {
    newCFGIter(self).ForEach(action)
}

func (self *CFG) ReversePostOrder(action func(bb *BasicBlock)) {
    for _, bb := range newCFGIter(self).Reversed() {
        action(bb)
    }
}
