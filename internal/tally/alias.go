package tally

import (
	"errors"
	"fmt"
	"strings"
)

var ErrMalformedAliasSpec = errors.New("alias spec must look like [a|b][c|d]")

// Author names that belong to one person. The first alias is the canonical
// name the merged record is reported under.
type AliasGroup struct {
	aliases []string
}

func NewAliasGroup(aliases ...string) (AliasGroup, error) {
	cleaned := []string{}
	for _, alias := range aliases {
		alias = strings.TrimSpace(alias)
		if alias != "" {
			cleaned = append(cleaned, alias)
		}
	}

	if len(cleaned) == 0 {
		return AliasGroup{}, errors.New("alias group has no aliases")
	}

	return AliasGroup{aliases: cleaned}, nil
}

func (g AliasGroup) Canonical() string {
	return g.aliases[0]
}

func (g AliasGroup) Aliases() []string {
	return append([]string(nil), g.aliases...)
}

func (g AliasGroup) String() string {
	return "[" + strings.Join(g.aliases, "|") + "]"
}

// Parses "[alias1|alias2]...[aliasA|aliasB]" into alias groups. Groups must
// be adjacent and aliases can't contain brackets. Empty groups are skipped. A
// blank spec yields no groups.
func ParseAliasSpec(spec string) ([]AliasGroup, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}

	if !strings.HasPrefix(spec, "[") || !strings.HasSuffix(spec, "]") {
		return nil, fmt.Errorf("%w: got \"%s\"", ErrMalformedAliasSpec, spec)
	}

	inner := spec[1 : len(spec)-1]

	groups := []AliasGroup{}
	for _, part := range strings.Split(inner, "][") {
		if strings.ContainsAny(part, "[]") {
			return nil, fmt.Errorf(
				"%w: stray bracket in group \"%s\"",
				ErrMalformedAliasSpec,
				part,
			)
		}

		group, err := NewAliasGroup(strings.Split(part, "|")...)
		if err != nil {
			continue
		}

		groups = append(groups, group)
	}

	return groups, nil
}

// An alias claimed by more than one group, named by the groups' canonical
// names in configured order.
type Collision struct {
	Alias  string
	Groups []string
}

func (c Collision) String() string {
	return fmt.Sprintf(
		"alias \"%s\" is claimed by groups %s",
		c.Alias,
		strings.Join(c.Groups, ", "),
	)
}

// Reports every alias that appears in more than one group.
func DetectCollisions(groups []AliasGroup) []Collision {
	claims := map[string][]string{}
	order := []string{}

	for _, group := range groups {
		seenInGroup := map[string]bool{}
		for _, alias := range group.aliases {
			if seenInGroup[alias] {
				continue
			}
			seenInGroup[alias] = true

			if _, ok := claims[alias]; !ok {
				order = append(order, alias)
			}
			claims[alias] = append(claims[alias], group.Canonical())
		}
	}

	collisions := []Collision{}
	for _, alias := range order {
		if len(claims[alias]) > 1 {
			collisions = append(collisions, Collision{
				Alias:  alias,
				Groups: claims[alias],
			})
		}
	}

	return collisions
}

// Combines the records of each alias group into a new record named after the
// group's canonical name. Records not named by any group pass through
// unchanged.
//
// Groups are applied in order and an author is consumed by the first group
// that names it. Later groups with the same canonical name add to the record
// the earlier group produced instead of emitting a second one.
func Merge(stats []*AuthorStats, groups []AliasGroup) []*AuthorStats {
	byAuthor := map[string]*AuthorStats{}
	for _, s := range stats {
		byAuthor[s.Author] = s
	}

	consumed := map[string]bool{}
	merged := map[string]*AuthorStats{}
	result := []*AuthorStats{}

	for _, group := range groups {
		target, ok := merged[group.Canonical()]
		if !ok {
			target = NewAuthorStats(group.Canonical())
			merged[group.Canonical()] = target
			result = append(result, target)
		}

		for _, alias := range group.aliases {
			if consumed[alias] {
				continue
			}
			consumed[alias] = true

			if s, ok := byAuthor[alias]; ok {
				target.absorb(s)
			}
		}
	}

	for _, s := range stats {
		if !consumed[s.Author] {
			result = append(result, s)
		}
	}

	logger().Debug(
		"merged aliases",
		"groups",
		len(groups),
		"before",
		len(stats),
		"after",
		len(result),
	)

	return result
}

func (s *AuthorStats) absorb(other *AuthorStats) {
	s.TotalLines += other.TotalLines
	s.Commits += other.Commits

	for _, ext := range other.extOrder {
		s.addExt(ext, other.linesByExt[ext])
	}

	for _, file := range other.fileOrder {
		s.addFile(file, other.linesByFile[file])
	}
}
