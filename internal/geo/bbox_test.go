package geo

import "testing"

func TestNewBoundingBox_Padding(t *testing.T) {
	a := Coordinate{Lat: 10, Lng: 20}
	b := Coordinate{Lat: 12, Lng: 18}

	box := NewBoundingBox(a, b, 0.01)

	if box.South != 9.99 || box.North != 12.01 {
		t.Errorf("lat bounds = [%v, %v], want [9.99, 12.01]", box.South, box.North)
	}
	if box.West != 17.99 || box.East != 20.01 {
		t.Errorf("lng bounds = [%v, %v], want [17.99, 20.01]", box.West, box.East)
	}
}

func TestBoundingBox_Quantized(t *testing.T) {
	box := BoundingBox{South: 10.004, West: 20.006, North: 12.001, East: 18.999}
	q := box.Quantized(0.01)

	if q.South != 10.00 {
		t.Errorf("South = %v, want 10.00 (floor)", q.South)
	}
	if q.West != 20.00 {
		t.Errorf("West = %v, want 20.00 (floor)", q.West)
	}
	if q.North != 12.01 {
		t.Errorf("North = %v, want 12.01 (ceil)", q.North)
	}
	if q.East != 19.00 {
		t.Errorf("East = %v, want 19.00 (ceil)", q.East)
	}
}

func TestBoundingBox_Quantized_SharedKeyForNearbyRequests(t *testing.T) {
	a := NewBoundingBox(Coordinate{Lat: 10.001, Lng: 20.001}, Coordinate{Lat: 10.002, Lng: 20.002}, 0)
	b := NewBoundingBox(Coordinate{Lat: 10.003, Lng: 20.003}, Coordinate{Lat: 10.004, Lng: 20.004}, 0)

	if a.Quantized(0.01).Key() != b.Quantized(0.01).Key() {
		t.Errorf("expected nearby requests to share a quantized cache key")
	}
}
