package domain

// Événements internes (contrat implicite avec le ledger de notifications).
// Chaque événement transporte le nom de l'acteur pour que le ledger puisse
// composer le message sans relire l'utilisateur.

type PostLikedEvent struct {
	PostID    string `json:"postId"`
	AuthorID  string `json:"authorId"` // destinataire de la notification
	ActorID   string `json:"actorId"`
	ActorName string `json:"actorName"`
}

type CommentAddedEvent struct {
	PostID    string `json:"postId"`
	AuthorID  string `json:"authorId"`
	ActorID   string `json:"actorId"`
	ActorName string `json:"actorName"`
}

type UserFollowedEvent struct {
	TargetID  string `json:"targetId"`
	ActorID   string `json:"actorId"`
	ActorName string `json:"actorName"`
}
