package types

import "slices"

// Resource type names. These are the logical names used by the model layer;
// backends map them to routes or storage.
const (
	ResourceProject         = "project"
	ResourceBoard           = "board"
	ResourceList            = "list"
	ResourceCard            = "card"
	ResourceLabel           = "label"
	ResourceUser            = "user"
	ResourceTaskList        = "task_list"
	ResourceTask            = "task"
	ResourceComment         = "comment"
	ResourceAttachment      = "attachment"
	ResourceAction          = "action"
	ResourceBoardMembership = "board_membership"
)

// ResourceTypes lists all known resource types for enumeration.
var ResourceTypes = []string{
	ResourceProject,
	ResourceBoard,
	ResourceList,
	ResourceCard,
	ResourceLabel,
	ResourceUser,
	ResourceTaskList,
	ResourceTask,
	ResourceComment,
	ResourceAttachment,
	ResourceAction,
	ResourceBoardMembership,
}

// Relation describes a one-to-many link from a resource to its children.
// Target records carry the parent's id in ForeignKey.
type Relation struct {
	Name       string
	Target     string
	ForeignKey string
}

// Relations maps a resource type to the relations it exposes, keyed by
// relation name.
var Relations = map[string]map[string]Relation{
	ResourceProject: {
		"boards": {Name: "boards", Target: ResourceBoard, ForeignKey: "projectId"},
	},
	ResourceBoard: {
		"lists":       {Name: "lists", Target: ResourceList, ForeignKey: "boardId"},
		"cards":       {Name: "cards", Target: ResourceCard, ForeignKey: "boardId"},
		"labels":      {Name: "labels", Target: ResourceLabel, ForeignKey: "boardId"},
		"memberships": {Name: "memberships", Target: ResourceBoardMembership, ForeignKey: "boardId"},
		"actions":     {Name: "actions", Target: ResourceAction, ForeignKey: "boardId"},
	},
	ResourceList: {
		"cards": {Name: "cards", Target: ResourceCard, ForeignKey: "listId"},
	},
	ResourceCard: {
		"task_lists":  {Name: "task_lists", Target: ResourceTaskList, ForeignKey: "cardId"},
		"comments":    {Name: "comments", Target: ResourceComment, ForeignKey: "cardId"},
		"attachments": {Name: "attachments", Target: ResourceAttachment, ForeignKey: "cardId"},
		"actions":     {Name: "actions", Target: ResourceAction, ForeignKey: "cardId"},
	},
	ResourceTaskList: {
		"tasks": {Name: "tasks", Target: ResourceTask, ForeignKey: "taskListId"},
	},
}

// LookupRelation returns the named relation of resourceType.
// Returns ErrUnknownResource or ErrUnknownRelation when absent.
func LookupRelation(resourceType, name string) (Relation, error) {
	if !IsResourceType(resourceType) {
		return Relation{}, ErrUnknownResource
	}
	rel, ok := Relations[resourceType][name]
	if !ok {
		return Relation{}, ErrUnknownRelation
	}
	return rel, nil
}

// IsResourceType reports whether name is a known resource type.
func IsResourceType(name string) bool {
	return slices.Contains(ResourceTypes, name)
}
