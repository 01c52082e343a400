package shopify

// GraphQL documents used by the media manager
const (
	StagedUploadsCreateMutation = `mutation stagedUploadsCreate($input: [StagedUploadInput!]!) {
  stagedUploadsCreate(input: $input) {
    stagedTargets {
      url
      resourceUrl
      parameters {
        name
        value
      }
    }
    userErrors {
      field
      message
    }
  }
}`

	FileCreateMutation = `mutation fileCreate($files: [FileCreateInput!]!) {
  fileCreate(files: $files) {
    files {
      id
      alt
      fileStatus
      ... on Video {
        status
      }
    }
    userErrors {
      field
      message
    }
  }
}`

	FileDeleteMutation = `mutation fileDelete($fileIds: [ID!]!) {
  fileDelete(fileIds: $fileIds) {
    deletedFileIds
    userErrors {
      field
      message
    }
  }
}`

	VideoStatusQuery = `query videoStatus($id: ID!) {
  node(id: $id) {
    id
    ... on Video {
      status
      originalSource {
        url
      }
      sources {
        url
        format
        mimeType
      }
    }
  }
}`

	FilesQuery = `query files($first: Int!, $after: String) {
  files(first: $first, after: $after) {
    edges {
      node {
        id
        ... on GenericFile {
          url
        }
        ... on MediaImage {
          image {
            url
          }
        }
        ... on Video {
          originalSource {
            url
          }
          sources {
            url
          }
        }
        preview {
          image {
            url
          }
        }
      }
    }
    pageInfo {
      hasNextPage
      endCursor
    }
  }
}`
)

// StagedParameter is one form field a staged target requires
type StagedParameter struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// StagedTarget is a single-use upload destination
type StagedTarget struct {
	URL         string            `json:"url"`
	ResourceURL string            `json:"resourceUrl"`
	Parameters  []StagedParameter `json:"parameters"`
}

// UserError is a mutation-level validation error
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// StagedUploadsCreateData is the data member of StagedUploadsCreateMutation
type StagedUploadsCreateData struct {
	StagedUploadsCreate struct {
		StagedTargets []StagedTarget `json:"stagedTargets"`
		UserErrors    []UserError    `json:"userErrors"`
	} `json:"stagedUploadsCreate"`
}

// CreatedFile is a file returned by fileCreate
type CreatedFile struct {
	ID         string `json:"id"`
	Alt        string `json:"alt"`
	FileStatus string `json:"fileStatus"`
	Status     string `json:"status"`
}

// FileCreateData is the data member of FileCreateMutation
type FileCreateData struct {
	FileCreate struct {
		Files      []CreatedFile `json:"files"`
		UserErrors []UserError   `json:"userErrors"`
	} `json:"fileCreate"`
}

// FileDeleteData is the data member of FileDeleteMutation
type FileDeleteData struct {
	FileDelete struct {
		DeletedFileIDs []string    `json:"deletedFileIds"`
		UserErrors     []UserError `json:"userErrors"`
	} `json:"fileDelete"`
}

// URLHolder is any object exposing a url
type URLHolder struct {
	URL string `json:"url"`
}

// VideoSource is one rendition of a processed video
type VideoSource struct {
	URL      string `json:"url"`
	Format   string `json:"format"`
	MimeType string `json:"mimeType"`
}

// VideoNode is the node returned by VideoStatusQuery
type VideoNode struct {
	ID             string        `json:"id"`
	Status         string        `json:"status"`
	OriginalSource *URLHolder    `json:"originalSource"`
	Sources        []VideoSource `json:"sources"`
}

// VideoStatusData is the data member of VideoStatusQuery
type VideoStatusData struct {
	Node *VideoNode `json:"node"`
}

// FileNode is one entry of the files connection
type FileNode struct {
	ID             string        `json:"id"`
	URL            string        `json:"url"`
	Image          *URLHolder    `json:"image"`
	OriginalSource *URLHolder    `json:"originalSource"`
	Sources        []VideoSource `json:"sources"`
	Preview        *struct {
		Image *URLHolder `json:"image"`
	} `json:"preview"`
}

// URLs returns every url the file is reachable under
func (n FileNode) URLs() []string {
	var urls []string
	add := func(u string) {
		if u != "" {
			urls = append(urls, u)
		}
	}
	add(n.URL)
	if n.Image != nil {
		add(n.Image.URL)
	}
	if n.OriginalSource != nil {
		add(n.OriginalSource.URL)
	}
	for _, s := range n.Sources {
		add(s.URL)
	}
	if n.Preview != nil && n.Preview.Image != nil {
		add(n.Preview.Image.URL)
	}
	return urls
}

// FilesData is the data member of FilesQuery
type FilesData struct {
	Files struct {
		Edges []struct {
			Node FileNode `json:"node"`
		} `json:"edges"`
		PageInfo struct {
			HasNextPage bool   `json:"hasNextPage"`
			EndCursor   string `json:"endCursor"`
		} `json:"pageInfo"`
	} `json:"files"`
}
