package request

type Tag struct {
	Name string `json:"name" binding:"required,notblank,max=50"`
}
