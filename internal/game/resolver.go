package game

// resolveBoundaries bounces every body off the surface walls, in index order.
func resolveBoundaries(bodies []*Body, surface Surface) []CollisionEvent {
	var events []CollisionEvent
	for i, b := range bodies {
		speed := b.Velocity()
		if b.ReflectOffWall(surface.Width, surface.Height) {
			events = append(events, CollisionEvent{Type: EventWall, BodyID: BodyID(i), TargetID: -1, Speed: speed})
		}
	}
	return events
}

// resolveCollisions checks each unordered pair once: i ascending, then j > i ascending.
func resolveCollisions(bodies []*Body) []CollisionEvent {
	var events []CollisionEvent
	for i := 0; i < len(bodies); i++ {
		a := bodies[i]
		for j := i + 1; j < len(bodies); j++ {
			b := bodies[j]
			closing := FromPolar(a.Velocity(), a.Heading()).Minus(FromPolar(b.Velocity(), b.Heading())).Magnitude()
			if a.Collide(b) {
				events = append(events, CollisionEvent{Type: EventBall, BodyID: BodyID(i), TargetID: BodyID(j), Speed: closing})
			}
		}
	}
	return events
}

func integrateAll(bodies []*Body) {
	for _, b := range bodies {
		b.Integrate()
	}
}
