// Package spatial implements the conveyor-graph spatial substrate from
// spec §4.5: entity registration, Dijkstra pathfinding, and collision-aware
// per-tick progress advancement.
package spatial

import "math"

// Vec3 is a 3D waypoint, used by Conveyor's polyline.
type Vec3 struct {
	X, Y, Z float64
}

func dist(a, b Vec3) float64 {
	dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Entity is a node in the conveyor graph: something an agent can progress
// along at a nominal speed, handing off to one of its declared
// connections on completion. Grounded on entities/manufacturing/conveyor.py
// and turn_table.py, generalized behind one interface so ConveyorSpace's
// graph and progression logic don't need a type switch per entity kind.
type Entity interface {
	ID() string
	// Length is the traversal distance in the entity's own units (linear
	// distance for a Conveyor, arc length for a TurnTable).
	Length() float64
	// Speed is the nominal rate of travel, in the same units as Length
	// per tick.
	Speed() float64
	// Connections lists the entity IDs reachable after completing travel
	// across this entity.
	Connections() []string
}

// Conveyor is a straight or polyline spatial entity: agents progress
// linearly from one end to the other along its declared 3D waypoints.
type Conveyor struct {
	id          string
	points      []Vec3
	speed       float64
	connections []string
}

// NewConveyor constructs a Conveyor from at least two waypoints.
func NewConveyor(id string, points []Vec3, speed float64) *Conveyor {
	if len(points) < 2 {
		panic("spatial: conveyor " + id + " must have at least 2 points")
	}
	return &Conveyor{id: id, points: points, speed: speed}
}

func (c *Conveyor) ID() string            { return c.id }
func (c *Conveyor) Speed() float64        { return c.speed }
func (c *Conveyor) Connections() []string { return c.connections }

// ConnectTo declares a downstream entity agents may hand off to after
// reaching progress 1 on this conveyor.
func (c *Conveyor) ConnectTo(entityID string) { c.connections = append(c.connections, entityID) }

// Length returns the total polyline length.
func (c *Conveyor) Length() float64 {
	total := 0.0
	for i := 0; i+1 < len(c.points); i++ {
		total += dist(c.points[i], c.points[i+1])
	}
	return total
}

// PositionAtProgress maps normalized progress in [0,1] to a 3D point along
// the polyline via linear interpolation between waypoints — an observer
// convenience, not consulted by the movement model itself.
func (c *Conveyor) PositionAtProgress(progress float64) Vec3 {
	if progress <= 0 {
		return c.points[0]
	}
	if progress >= 1 {
		return c.points[len(c.points)-1]
	}
	total := c.Length()
	if total == 0 {
		return c.points[0]
	}
	target := progress * total
	accumulated := 0.0
	for i := 0; i+1 < len(c.points); i++ {
		p1, p2 := c.points[i], c.points[i+1]
		segLen := dist(p1, p2)
		if accumulated+segLen >= target {
			local := (target - accumulated) / segLen
			return Vec3{
				X: p1.X + local*(p2.X-p1.X),
				Y: p1.Y + local*(p2.Y-p1.Y),
				Z: p1.Z + local*(p2.Z-p1.Z),
			}
		}
		accumulated += segLen
	}
	return c.points[len(c.points)-1]
}

// TurnTable is a rotating platform: agents progress angularly rather than
// linearly, but present the same normalized-progress contract to
// ConveyorSpace — its Length is the arc swept by rotationAngle at radius,
// so time-weighted pathfinding treats it like any other entity.
type TurnTable struct {
	id            string
	radius        float64
	angularSpeed  float64
	rotationAngle float64 // total angle this turntable rotates an agent through
	connections   []string
}

// NewTurnTable constructs a TurnTable that rotates agents through
// rotationAngle radians at angularSpeed radians/tick.
func NewTurnTable(id string, radius, angularSpeed, rotationAngle float64) *TurnTable {
	return &TurnTable{id: id, radius: radius, angularSpeed: angularSpeed, rotationAngle: rotationAngle}
}

func (t *TurnTable) ID() string            { return t.id }
func (t *TurnTable) Speed() float64        { return t.angularSpeed * t.radius }
func (t *TurnTable) Connections() []string { return t.connections }
func (t *TurnTable) Length() float64       { return t.rotationAngle * t.radius }

// ConnectTo declares a downstream entity reachable once the rotation
// through rotationAngle completes.
func (t *TurnTable) ConnectTo(entityID string) { t.connections = append(t.connections, entityID) }

// PositionAtAngle returns the 2D position (z=0) at the given rotation
// angle, assuming the table is centered at the origin.
func (t *TurnTable) PositionAtAngle(angle float64) Vec3 {
	return Vec3{X: t.radius * math.Cos(angle), Y: t.radius * math.Sin(angle), Z: 0}
}
