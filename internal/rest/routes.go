package rest

import (
	"github.com/mesh-intelligence/planka/pkg/types"
)

// plurals maps resource types to their path segment under api/.
var plurals = map[string]string{
	types.ResourceProject:         "projects",
	types.ResourceBoard:           "boards",
	types.ResourceList:            "lists",
	types.ResourceCard:            "cards",
	types.ResourceLabel:           "labels",
	types.ResourceUser:            "users",
	types.ResourceTaskList:        "task-lists",
	types.ResourceTask:            "tasks",
	types.ResourceComment:         "comments",
	types.ResourceAttachment:      "attachments",
	types.ResourceAction:          "actions",
	types.ResourceBoardMembership: "board-memberships",
}

// listable holds the resource types with a top-level collection route.
var listable = map[string]bool{
	types.ResourceProject: true,
	types.ResourceUser:    true,
}

// relationRoute says where a relation's records come from: either a key of
// the parent's "included" block or a sub-collection endpoint under the
// parent.
type relationRoute struct {
	Included string
	Subpath  string
}

var relationRoutes = map[string]map[string]relationRoute{
	types.ResourceProject: {
		"boards": {Included: "boards"},
	},
	types.ResourceBoard: {
		"lists":       {Included: "lists"},
		"cards":       {Included: "cards"},
		"labels":      {Included: "labels"},
		"memberships": {Included: "boardMemberships"},
		"actions":     {Subpath: "actions"},
	},
	types.ResourceList: {
		"cards": {Subpath: "cards"},
	},
	types.ResourceCard: {
		"task_lists":  {Included: "taskLists"},
		"comments":    {Subpath: "comments"},
		"attachments": {Included: "attachments"},
		"actions":     {Subpath: "actions"},
	},
	types.ResourceTaskList: {
		"tasks": {Included: "tasks"},
	},
}

// itemPath returns the path of a single resource.
func itemPath(resourceType, id string) (string, error) {
	plural, ok := plurals[resourceType]
	if !ok {
		return "", types.ErrUnknownResource
	}
	return "api/" + plural + "/" + id, nil
}

// listPath returns the top-level collection path of a resource type.
func listPath(resourceType string) (string, error) {
	if !listable[resourceType] {
		return "", types.ErrUnknownResource
	}
	return "api/" + plurals[resourceType], nil
}

func lookupRelationRoute(resourceType, relation string) (relationRoute, error) {
	if _, err := types.LookupRelation(resourceType, relation); err != nil {
		return relationRoute{}, err
	}
	route, ok := relationRoutes[resourceType][relation]
	if !ok {
		return relationRoute{}, types.ErrUnknownRelation
	}
	return route, nil
}
