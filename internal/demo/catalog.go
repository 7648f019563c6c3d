// Package demo wires a sample news catalog into a canopy.Tree and provides
// the small virtualization host used by the canopy command.
package demo

// Headline is one child row of a section.
type Headline struct {
	ID     int64
	Title  string
	Source string
}

// Section is one root row. Its headlines are shown when it is expanded.
type Section struct {
	ID        int64
	Title     string
	Headlines []Headline
}

// headlineID derives a headline id that cannot collide across sections.
func headlineID(sectionID int64, index int) int64 {
	return sectionID*1000 + int64(index)
}

// SampleCatalog returns a fixed catalog used by the REPL, the terminal UI and
// the tests.
func SampleCatalog() []Section {
	raw := []struct {
		title     string
		headlines [][2]string
	}{
		{"World", [][2]string{
			{"Coastal cities adopt shared flood plan", "Wire"},
			{"Grain corridor reopens after talks", "Daily Ledger"},
			{"Election turnout hits record high", "Courier"},
		}},
		{"Technology", [][2]string{
			{"Chipmaker doubles fab capacity", "Bytes Weekly"},
			{"Open source maintainers form foundation", "Commit Log"},
		}},
		{"Science", [][2]string{
			{"Probe returns samples from near-earth asteroid", "Orbit"},
			{"New antibiotic class found in soil bacteria", "Lab Notes"},
			{"Deep sea survey maps unknown ridge", "Tides"},
			{"Solar minimum arrives early", "Orbit"},
		}},
		{"Culture", nil},
		{"Sports", [][2]string{
			{"Underdogs take the cup in extra time", "Stadium"},
		}},
	}

	sections := make([]Section, len(raw))
	for i, r := range raw {
		id := int64(i + 1)
		s := Section{ID: id, Title: r.title}
		for j, h := range r.headlines {
			s.Headlines = append(s.Headlines, Headline{
				ID:     headlineID(id, j),
				Title:  h[0],
				Source: h[1],
			})
		}
		sections[i] = s
	}
	return sections
}
