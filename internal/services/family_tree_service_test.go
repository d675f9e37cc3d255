package services

import (
	"fmt"
	"testing"

	"github.com/alimgiray/familytree/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescendantsAndAncestorsOfChain(t *testing.T) {
	env := newTestEnv(t)
	root := env.person(t, "Root")
	child := env.person(t, "Child")
	grandchild := env.person(t, "Grandchild")
	env.parentOf(t, root, child)
	env.parentOf(t, child, grandchild)

	descendants, err := env.tree.Descendants(root.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Child", "Grandchild"}, personNames(descendants))

	ancestors, err := env.tree.Ancestors(grandchild.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Child", "Root"}, personNames(ancestors))

	none, err := env.tree.Descendants(grandchild.ID)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestDescendantsPreOrder(t *testing.T) {
	env := newTestEnv(t)
	root := env.person(t, "Root")
	a := env.person(t, "A")
	b := env.person(t, "B")
	a1 := env.person(t, "A1")
	b1 := env.person(t, "B1")
	env.parentOf(t, root, a)
	env.parentOf(t, root, b)
	env.parentOf(t, a, a1)
	env.parentOf(t, b, b1)

	descendants, err := env.tree.Descendants(root.ID)
	require.NoError(t, err)
	// siblings newest first, each followed by its own subtree
	assert.Equal(t, []string{"B", "B1", "A", "A1"}, personNames(descendants))
}

func TestTraversalStopsAfterMaxGenerations(t *testing.T) {
	env := newTestEnv(t)

	chain := make([]*models.Person, MaxGenerations+3)
	for i := range chain {
		chain[i] = env.person(t, fmt.Sprintf("G%d", i))
		if i > 0 {
			env.parentOf(t, chain[i-1], chain[i])
		}
	}

	descendants, err := env.tree.Descendants(chain[0].ID)
	require.NoError(t, err)
	assert.Len(t, descendants, MaxGenerations)
	assert.Equal(t, "G1", descendants[0].FullName)
	assert.Equal(t, fmt.Sprintf("G%d", MaxGenerations), descendants[len(descendants)-1].FullName)

	ancestors, err := env.tree.Ancestors(chain[len(chain)-1].ID)
	require.NoError(t, err)
	assert.Len(t, ancestors, MaxGenerations)
}

func TestTraversalTerminatesOnCycle(t *testing.T) {
	env := newTestEnv(t)
	a := env.person(t, "A")
	b := env.person(t, "B")
	env.parentOf(t, a, b)
	env.parentOf(t, b, a)

	descendants, err := env.tree.Descendants(a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A", "B", "A", "B"}, personNames(descendants))
}

func TestDescendantsKeepsReconvergentDuplicates(t *testing.T) {
	env := newTestEnv(t)
	root := env.person(t, "Root")
	left := env.person(t, "Left")
	right := env.person(t, "Right")
	shared := env.person(t, "Shared")
	env.parentOf(t, root, left)
	env.parentOf(t, root, right)
	env.parentOf(t, left, shared)
	env.parentOf(t, right, shared)

	descendants, err := env.tree.Descendants(root.ID)
	require.NoError(t, err)
	assert.Len(t, descendants, 4)
	assert.ElementsMatch(t, []string{"Left", "Right", "Shared", "Shared"}, personNames(descendants))
}

func TestTraversalUnknownPerson(t *testing.T) {
	env := newTestEnv(t)
	var notFound *models.NotFoundError

	_, err := env.tree.Descendants(uuid.New().String())
	assert.ErrorAs(t, err, &notFound)

	_, err = env.tree.Ancestors("bogus")
	assert.ErrorAs(t, err, &notFound)

	_, err = env.tree.FamilyTree(uuid.New().String())
	assert.ErrorAs(t, err, &notFound)
}

func TestFamilyTreePartitionsChildrenBySpouse(t *testing.T) {
	env := newTestEnv(t)
	person := env.person(t, "Person")
	first := env.person(t, "First")
	second := env.person(t, "Second")
	a := env.person(t, "A")
	b := env.person(t, "B")
	c := env.person(t, "C")
	solo := env.person(t, "Solo")

	// person is person2 of the first marriage and person1 of the second
	env.marry(t, first, person)
	env.marry(t, person, second)

	for _, child := range []*models.Person{a, b, c, solo} {
		env.parentOf(t, person, child)
	}
	env.parentOf(t, first, a)
	env.parentOf(t, first, b)
	env.parentOf(t, second, c)
	env.parentOf(t, second, b)

	tree, err := env.tree.FamilyTree(person.ID)
	require.NoError(t, err)

	assert.Equal(t, "Person", tree.Person.FullName)
	assert.ElementsMatch(t, []string{"A", "B", "C", "Solo"}, personNames(tree.Children))

	bySpouse := map[string][]string{}
	for _, link := range tree.Spouses {
		bySpouse[link.Spouse.FullName] = personNames(link.Children)
		assert.True(t, link.Relationship.IsActiveMarriage())
	}
	require.Len(t, bySpouse, 2)
	assert.ElementsMatch(t, []string{"A", "B"}, bySpouse["First"])
	assert.ElementsMatch(t, []string{"B", "C"}, bySpouse["Second"])
}

func TestFamilyTreeWithoutFamily(t *testing.T) {
	env := newTestEnv(t)
	loner := env.person(t, "Loner")

	tree, err := env.tree.FamilyTree(loner.ID)
	require.NoError(t, err)
	assert.Empty(t, tree.Spouses)
	assert.Empty(t, tree.Children)
}

func TestSharedChildren(t *testing.T) {
	a := &models.Person{ID: "a"}
	b := &models.Person{ID: "b"}
	c := &models.Person{ID: "c"}

	assert.Equal(t, []*models.Person{a, c}, sharedChildren([]*models.Person{a, b, c}, []*models.Person{c, a}))
	assert.Empty(t, sharedChildren([]*models.Person{a}, nil))
}
