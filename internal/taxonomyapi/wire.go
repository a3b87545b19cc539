package taxonomyapi

// Request and response bodies of the taxonomy service.

type entityBody struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name"`
	ContentURI string `json:"contentUri,omitempty"`
}

type translationBody struct {
	Name string `json:"name"`
}

type childDoc struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ConnectionID string `json:"connectionId"`
	Rank         int    `json:"rank"`
	IsPrimary    bool   `json:"isPrimary"`
}

type subjectTopicBody struct {
	SubjectID string `json:"subjectid"`
	TopicID   string `json:"topicid"`
	Primary   bool   `json:"primary"`
	Rank      int    `json:"rank"`
}

type topicSubtopicBody struct {
	TopicID    string `json:"topicid"`
	SubtopicID string `json:"subtopicid"`
	Primary    bool   `json:"primary"`
	Rank       int    `json:"rank"`
}

type topicResourceBody struct {
	TopicID    string `json:"topicid"`
	ResourceID string `json:"resourceId"`
	Primary    bool   `json:"primary"`
	Rank       int    `json:"rank"`
}

type updateAssociationBody struct {
	ID      string `json:"id"`
	Primary bool   `json:"primary"`
	Rank    int    `json:"rank"`
}

type resourceTypeDoc struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Subtypes []resourceTypeDoc `json:"subtypes,omitempty"`
}

type createResourceTypeBody struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	ParentID string `json:"parentId,omitempty"`
}

type attachedResourceTypeDoc struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ParentID     string `json:"parentId"`
	ConnectionID string `json:"connectionId"`
}

type resourceResourceTypeBody struct {
	ResourceID     string `json:"resourceId"`
	ResourceTypeID string `json:"resourceTypeId"`
}

type topicResourceTypeBody struct {
	TopicID        string `json:"topicId"`
	ResourceTypeID string `json:"resourceTypeId"`
}

type namedDoc struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type createFilterBody struct {
	Name      string `json:"name"`
	SubjectID string `json:"subjectId"`
}

type attachedFilterDoc struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ConnectionID string `json:"connectionId"`
	RelevanceID  string `json:"relevanceId"`
}

type resourceFilterBody struct {
	ResourceID  string `json:"resourceId"`
	FilterID    string `json:"filterId"`
	RelevanceID string `json:"relevanceId,omitempty"`
}

type topicFilterBody struct {
	TopicID     string `json:"topicId"`
	FilterID    string `json:"filterId"`
	RelevanceID string `json:"relevanceId,omitempty"`
}

type createRelevanceBody struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

type urlMappingBody struct {
	URL       string `json:"url"`
	NodeID    string `json:"nodeId"`
	SubjectID string `json:"subjectId"`
}
