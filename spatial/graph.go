package spatial

import (
	"container/heap"
	"math"
)

// graph is the adjacency structure ConveyorSpace builds from registered
// entities: edges are each entity's declared Connections, weighted by
// traversal time (Length/Speed) at nominal speed, per spec §4.5.
type graph struct {
	entities map[string]Entity
}

func newGraph() *graph { return &graph{entities: make(map[string]Entity)} }

func (g *graph) addEntity(e Entity) { g.entities[e.ID()] = e }

func (g *graph) has(id string) bool {
	_, ok := g.entities[id]
	return ok
}

func (g *graph) travelTime(e Entity) float64 {
	if e.Speed() <= 0 {
		return math.Inf(1)
	}
	return e.Length() / e.Speed()
}

// shortestPath runs Dijkstra from start to end (both entity IDs,
// inclusive) and returns the ordered list of entity IDs on the cheapest
// path, or nil if end is unreachable. Edge weight is the time to fully
// traverse the entity being entered.
//
// Grounded on the teacher pack's event-heap idiom (an explicit
// container/heap.Interface type with a deterministic tie-break), adapted
// here from a time-ordered event queue to a cost-ordered frontier — the
// teacher itself only needs unweighted graph reachability, so this is
// enrichment pulled from the wider pack rather than the teacher directly.
func (g *graph) shortestPath(start, end string) []string {
	if !g.has(start) || !g.has(end) {
		return nil
	}
	if start == end {
		return []string{start}
	}

	dist := map[string]float64{start: 0}
	prev := map[string]string{}
	visited := map[string]bool{}

	pq := &priorityQueue{{id: start, cost: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(pqItem)
		if visited[cur.id] {
			continue
		}
		visited[cur.id] = true
		if cur.id == end {
			break
		}

		entity, ok := g.entities[cur.id]
		if !ok {
			continue
		}
		for _, next := range entity.Connections() {
			nextEntity, ok := g.entities[next]
			if !ok {
				continue
			}
			cost := cur.cost + g.travelTime(nextEntity)
			if best, seen := dist[next]; !seen || cost < best {
				dist[next] = cost
				prev[next] = cur.id
				heap.Push(pq, pqItem{id: next, cost: cost})
			}
		}
	}

	if _, ok := dist[end]; !ok {
		return nil
	}

	path := []string{end}
	for path[len(path)-1] != start {
		p, ok := prev[path[len(path)-1]]
		if !ok {
			return nil
		}
		path = append(path, p)
	}
	// reverse into start->end order
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

type pqItem struct {
	id   string
	cost float64
}

// priorityQueue implements heap.Interface, ordered by cost then id for a
// deterministic tie-break under equal cost.
type priorityQueue []pqItem

func (pq priorityQueue) Len() int { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].cost != pq[j].cost {
		return pq[i].cost < pq[j].cost
	}
	return pq[i].id < pq[j].id
}
func (pq priorityQueue) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x any)   { *pq = append(*pq, x.(pqItem)) }
func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}
